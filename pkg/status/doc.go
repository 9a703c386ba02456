/*
Package status handles file access and outcome tracking for a migration run.

	            +-------------+
	            |   Status    |
	            |  (Manager)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +-----+-----+
	|   Files   |           | Outcomes  |
	|  (I/O)    |           | (Report)  |
	+-----------+           +-----------+

🎯 Purpose:
- Reads inputs and writes outputs for the operation package
- Tracks one outcome per file (created, modified, unchanged, failed)
- Formats one-line confirmations and progress messages

🔄 Flow:
1. Operation reads the input through FileManager
2. Migrated content is written in place or to the output path
3. The outcome is recorded with TrackFile
4. Progress is reported as files complete

⚡ Notes:
- Writes go straight to the target path. There is no temp file and rename, and an
  existing file keeps its permissions.
- The manager is safe for concurrent use, so async runs can track from many goroutines.

🤝 Interfaces:
- FileManager: file system access
- StatusReporter: outcome tracking and progress
- FileFormatter: message formatting
*/
package status

/*
Package operation runs a migration profile over a set of files.

	+-------------+
	|   Targets   |
	| (Expand)    |
	+------+------+
	       |
	+------+------+
	|  Operation  |
	| (Pipeline)  |
	+------+------+
	       |
	+------+------+
	|   Status    |
	| (Write/Diff)|
	+------+------+

🎯 Purpose:
- Reads each target through status.FileManager
- Runs the profile pipeline over the content
- Writes the result, or prints a unified diff on a dry run
- Reports one confirmation line per file

🔄 Flow:
1. Expand turns doublestar patterns into in-place targets
2. prepare reads the input, applies the pipeline and compares against the output
3. commit writes or diffs
4. report tracks the FileInfo and logs the file operation

⚡ Operations:
- NewMigrateOperation: migrate targets, sequentially or bounded-concurrent with Async
- NewCheckOperation: report targets that still need migrating, fails with ErrPending

🔍 Example:

	op, err := operation.NewMigrateOperation(operation.Options{
		Pipeline: migrate.Generic(cfg),
		Targets:  []operation.Target{{Input: "FooE2ETest.kt"}},
		Files:    mgr,
		Status:   mgr,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	err = operation.NewRunner(&zlog, false).Run(ctx, op)

Each file is owned by one goroutine and its pipeline runs stage by stage. Writes are
in place with no atomic rename.
*/
package operation

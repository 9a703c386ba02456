/*
Package config manages the rule configuration for ctxmigrate.

	            +-------------+
	            |   Config    |
	            | (Defaults)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Provides the defaults that match the dropper test suite
- Lets a file override legacy names, import anchors, command lists and extra
  literal replacements
- Validates every value before a rewrite runs

🔄 Flow:
1. Start from Default()
2. Overlay values found in the file (by extension)
3. Validate and hand the result to the migrate pipeline

🔍 Example:

	cfg, err := config.LoadConfig(ctx, ".ctxmigrate.yaml")
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	pipeline := migrate.Generic(cfg)

Files only need the keys they change:

	names:
	  legacy_dir: testDir
	commands:
	  - AddVersionCommand
*/
package config

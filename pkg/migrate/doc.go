/*
Package migrate rewrites Kotlin tests that manage a temporary project directory by hand
(lateinit File field, mkdirs, ProjectGenerator, user.dir override) into tests that use
TestProjectContext.

	+-----------+     +-----------+     +-----------+
	|  imports  | --> |  fields   | --> |   setup   |
	+-----------+     +-----------+     +-----+-----+
	                                          |
	+-----------+     +-----------+     +-----+-----+
	| call-site | <-- |  userdir  | <-- |  cleanup  |
	+-----+-----+     +-----------+     +-----------+
	      |
	+-----+-----+     +-----------+
	|  inject   | --> |   wrap    |   (profile dependent)
	+-----------+     +-----------+

🎯 Purpose:
- Recognise every historical variant of the old fixture and emit one canonical form
- Leave text outside a recognised region byte-identical

🔄 Ordering:
Stages run in a fixed order and each sees the output of the previous one. The
call-site stage replaces the legacy directory handle everywhere, so it runs after
every stage that still needs to match the handle in its original form.

⚡ Matching:
Nothing here builds a syntax tree. The source package classifies bytes as code,
comment or string, which is enough to find hook bodies by brace matching and to keep
matchers from firing inside comments and string literals. Each hook is classified
once into a tagged shape (SetupShape, CleanupShape) and a single dispatcher rewrites
it, so no region is rewritten twice.

🔍 Example:

	p := migrate.Generic(config.Default())
	f := &migrate.File{Path: "MyTestE2ETest.kt", Content: src}
	res, err := p.Apply(ctx, f)
	// f.Content now holds the rewritten text; res.Rewrites() counts the edits
*/
package migrate

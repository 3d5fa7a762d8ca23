/*
Package status owns the per-file outcomes of mutating operations and the
file system primitives they rely on.

	            +-------------+
	            |   Replace   |
	            |  operation  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           | Outcome |
	| (backup,  |           | (format |
	|  rewrite) |           |  & log) |
	+-----------+           +---------+

🎯 Purpose:
- Names every outcome a rewrite can have (replaced, skipped, would-replace,
  backup-failed, write-failed, read-failed)
- Creates sibling backups before a file is touched
- Rewrites files in place, keeping their permissions

📝 Outcomes are always reported. A file that fails never aborts the run; its
outcome carries the cause instead.
*/
package status

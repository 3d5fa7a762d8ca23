/*
Package operation runs line-oriented operations over a file corpus.

	            +-------------+
	            |   Runner    |
	            | (one walk)  |
	            +------+------+
	                   |
	   +--------+------+------+--------+
	   |        |             |        |
	+--+---+ +--+--+     +----+--+ +---+--+
	|Search| |Count|     |Replace| | Tree |
	+------+ +-----+     +-------+ +------+

🎯 Purpose:
- Drives a single walk.Walker and hands every entry to an Operation
- Keeps per-entry failures (unreadable directories, undecodable lines,
  vanished files) out of the control flow: they become Problems
- Lets each Operation accumulate its own report

🔄 Flow:
1. Runner asks the Operation for its walk.Policy
2. The walker yields filtered entries one at a time
3. Operation.Visit processes one entry (scan lines or read the whole file)
4. Per-entry errors are recorded; anything else aborts the run

⚡ Everything is sequential. One regular file is open at a time and it is
closed before the walk advances.
*/
package operation

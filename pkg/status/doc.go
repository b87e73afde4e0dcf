/*
Package status owns the target file on disk.

	+-----------+    ReadFile     +---------+
	|  fixer    | <-------------- |  disk   |
	|           | --------------> |         |
	+-----------+ WriteFileAtomic +---------+

🎯 Purpose:
- Reads the whole target into memory
- Writes the whole result back in one step, keeping the file mode
- Describes what happened to the file (unchanged, modified, failed)

A write goes to a temporary file in the same directory and is renamed over the
target, so a failed write leaves the original bytes in place.
*/
package status

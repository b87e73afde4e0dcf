/*
Package config loads rule tables from disk.

	            +-------------+
	            |  RuleFile   |
	            |  (rules)    |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   HCL    | |   JSON   |
	|  Parser  | |  Parser  | |  Parser   |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Lets an operator fix a file with a rule table other than the built-in one
- Picks the parser from the file extension
- Expands emoji shortcodes in replacements when the file sets shortcodes
- Compiles every pattern before the table is handed out

Replacements are literal. A file that sets shortcodes = true has ":name:"
shortcodes in its replacements expanded. HCL files can also call emoji() for
a single replacement, and use ${marker} for U+FFFD and ${vs16} for U+FE0F:

	target = "src/components/AdminPanel.jsx"

	rule {
	  pattern     = "'${marker}': \\['wrench',"
	  replacement = "'${emoji("wrench")}': ['wrench',"
	}
*/
package config

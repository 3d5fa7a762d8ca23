/*
Package config loads the optional futil configuration file.

🎯 Purpose:
- Per-command defaults for which entries a walk visits
- Names of the ignore files honored when ignore rules are on
- The extension used for replace backups

🔄 Flow:
1. Discover finds .futil.yaml, .futil.yml, .futil.hcl or .futil.json
2. GetParser picks a parser by file extension
3. The parsed File is layered over Defaults
4. Validate rejects values no command can use

📝 Schema (YAML shown, HCL and JSON use the same keys):

	ignore_file_names: [".gitignore", ".ignore", ".futilignore"]
	search:  { include_hidden: false, respect_ignore_files: false, max_depth: 0 }
	count:   { include_hidden: true,  respect_ignore_files: false, max_depth: 0 }
	replace: { include_hidden: true,  respect_ignore_files: false, max_depth: 0, backup_extension: bak }
	tree:    { include_hidden: false, respect_ignore_files: true,  max_depth: 0 }

max_depth 0 means unlimited. Keys left out keep their default.

HCL files may reference default_ignore_file_names and call concat:

	ignore_file_names = concat(default_ignore_file_names, [".dockerignore"])

	tree {
	  max_depth = 3
	}
*/
package config

package config

// ProjectConfigPaths returns the project-level config files in lookup order,
// relative to the current directory.
func ProjectConfigPaths() []string {
	return []string{".relnotes.yml", ".relnotes.yaml", ".relnotes.json"}
}

// ProjectConfigPath returns the preferred project-level config file.
func ProjectConfigPath() string {
	return ProjectConfigPaths()[0]
}

package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// FileSystem is the file access the resolver needs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem reads the process's file system.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// ResolvedFiles are the config and .env files chosen for a service. Either
// may be empty.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolver locates a service's config.yml and .env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolveFiles returns the explicit paths in opts, searching for whichever
// is missing. The service's own cmd/ and config/ directories win over shared
// ones, and a service-specific .env.<name> wins over .env.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	dirs := searchDirs(serviceName)
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(dirs, "config.yml")
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(dirs, ".env."+serviceName, ".env")
	}
	return files
}

// first returns the first existing file, trying every directory for a name
// before moving to the next name.
func (r *Resolver) first(dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			p := dir + "/" + name
			if r.FileSystem.Exists(p) {
				return p
			}
		}
	}
	return ""
}

// searchDirs lists candidate directories relative to the working directory
// and up to two parents, so tests run from package directories still find
// the repository's files. "inject-demo" is also searched as "demo".
func searchDirs(serviceName string) []string {
	names := []string{serviceName}
	if i := strings.LastIndex(serviceName, "-"); i != -1 {
		names = append(names, serviceName[i+1:])
	}

	var rel []string
	for _, n := range names {
		rel = append(rel, "cmd/"+n, "config/"+n)
	}
	rel = append(rel, "config", "")

	var dirs []string
	for _, r := range rel {
		for _, up := range []string{".", "..", "../.."} {
			if r == "" {
				dirs = append(dirs, up)
			} else {
				dirs = append(dirs, up+"/"+r)
			}
		}
	}
	return dirs
}

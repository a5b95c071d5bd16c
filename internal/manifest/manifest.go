// Package manifest implements project-file detection and template
// variable sourcing: deps.yaml, .env, and best-effort dependency hints
// from composer.json/package.json.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"launchpad/internal/errs"
)

// FileName is the canonical manifest filename launchpad looks for first.
const FileName = "deps.yaml"

// ServiceConfig is a project's declared configuration for one supervised
// service, the source of its template vars.
type ServiceConfig struct {
	AutoStart       bool              `yaml:"autoStart"`
	Port            int               `yaml:"port,omitempty"`
	ProjectDatabase string            `yaml:"database,omitempty"`
	DBUsername      string            `yaml:"username,omitempty"`
	AuthMethod      string            `yaml:"authMethod,omitempty"`
	Config          map[string]string `yaml:"config,omitempty"`
}

// Manifest is the parsed deps.yaml: the packages to install plus optional
// per-service configuration.
type Manifest struct {
	Packages []string                 `yaml:"packages" validate:"required,min=1,dive,required"`
	Services map[string]ServiceConfig `yaml:"services,omitempty" validate:"dive"`
}

var validate = validator.New()

// Load reads dir/deps.yaml and validates its shape. The returned path is
// dir/deps.yaml regardless of success, so callers can stat its mtime for
// the activation cache even on a validation error.
func Load(dir string) (*Manifest, string, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, errs.Resolution("read "+path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, path, errs.Resolution("parse "+path, err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, path, errs.Resolution("validate "+path, err)
	}
	return &m, path, nil
}

// Detect reports the manifest file present in dir, preferring deps.yaml,
// falling back to package.json or composer.json.
func Detect(dir string) (string, bool) {
	for _, candidate := range []string{FileName, "package.json", "composer.json"} {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// DependenciesFromPackageJSON extracts the top-level "dependencies" and
// "devDependencies" object keys from a package.json as package-spec hints,
// without fully unmarshaling the file.
func DependenciesFromPackageJSON(path string) ([]string, error) {
	return dependencyKeys(path, "dependencies", "devDependencies")
}

// DependenciesFromComposerJSON extracts "require" keys from a
// composer.json as package-spec hints.
func DependenciesFromComposerJSON(path string) ([]string, error) {
	return dependencyKeys(path, "require")
}

func dependencyKeys(path string, fields ...string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Resolution("read "+path, err)
	}

	var names []string
	for _, field := range fields {
		for _, name := range gjsonObjectKeys(data, field) {
			names = append(names, name)
		}
	}
	return names, nil
}

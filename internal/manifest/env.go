package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"launchpad/internal/errs"
)

// LoadEnv parses dir/.env, returning only the DB_* keys used as template
// variables for service first-start initialization. A missing .env is not
// an error: it returns an empty map.
func LoadEnv(dir string) (map[string]string, error) {
	path := filepath.Join(dir, ".env")
	all, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errs.Resolution("parse "+path, err)
	}

	vars := make(map[string]string, len(all))
	for k, v := range all {
		if strings.HasPrefix(k, "DB_") {
			vars[k] = v
		}
	}
	return vars, nil
}

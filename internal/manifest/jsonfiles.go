package manifest

import (
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"launchpad/internal/errs"
)

// gjsonObjectKeys returns the top-level keys of the object at path within
// data, without unmarshaling the whole document.
func gjsonObjectKeys(data []byte, path string) []string {
	result := gjson.GetBytes(data, path)
	if !result.IsObject() {
		return nil
	}
	var keys []string
	result.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// RecordLaunchpadVersion stamps the resolved version of domain under
// launchpad.installed.{domain} in a project's package.json. Nothing in
// launchpad reads these entries back; `outdated` inspects the install prefix.
func RecordLaunchpadVersion(path, domain, version string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.Filesystem("read "+path, err)
	}

	updated, err := sjson.SetBytes(data, "launchpad.installed."+domain, version)
	if err != nil {
		return errs.Filesystem("update "+path, err)
	}
	return os.WriteFile(path, updated, 0o644)
}

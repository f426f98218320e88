package cfn

import (
	"os"

	"github.com/delegat/stackdeploy/internal/errors"
)

// MaxTemplateBodySize is the largest template body CloudFormation accepts inline.
const MaxTemplateBodySize = 51200

// ReadTemplate reads a template body, refusing files larger than MaxTemplateBodySize before reading them.
func ReadTemplate(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.New(err)
	}

	if info.Size() > MaxTemplateBodySize {
		return "", errors.New(TemplateTooLargeError{Path: path, Size: info.Size(), Limit: MaxTemplateBodySize})
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return "", errors.New(err)
	}

	return string(body), nil
}

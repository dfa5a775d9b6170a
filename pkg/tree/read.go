package tree

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sankey/pkg/errors"
)

// Input formats accepted by [Parse].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ReadJSON decodes a JSON tree from r.
//
// A non-numeric "count" is reported as INVALID_WEIGHT; any other decode
// failure, or a document that is just null, is reported as INVALID_TREE.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Node, error) {
	var root *Node
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		var te *json.UnmarshalTypeError
		if stderrors.As(err, &te) && strings.HasSuffix(te.Field, "count") {
			return nil, errors.Wrap(errors.ErrCodeInvalidWeight, err, "count must be numeric (field %s)", te.Field)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode json")
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "tree is empty")
	}
	return root, nil
}

// ReadYAML decodes a YAML tree from r.
// ReadYAML does not close r.
func ReadYAML(r io.Reader) (*Node, error) {
	var root *Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.New(errors.ErrCodeInvalidTree, "tree is empty")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "decode yaml")
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidTree, "tree is empty")
	}
	return root, nil
}

// Parse decodes data in the given format ("json" or "yaml").
func Parse(data []byte, format string) (*Node, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(bytes.NewReader(data))
	case FormatYAML:
		return ReadYAML(bytes.NewReader(data))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown tree format: %q (must be json or yaml)", format)
	}
}

// FormatFromPath picks the input format from a file extension. Anything
// that is not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Import reads the tree stored at path, choosing the decoder from the file
// extension.
func Import(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tree file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	root, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// Package operators loads operator profiles: endpoint, language, timezone,
// products and extra error codes of one HAFAS installation.
//
// Two operators are built in; a directory of *.yaml files can add more or
// replace the built-in ones by name.
package operators

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas/errcodes"
)

// File is one operator profile file.
type File struct {
	Name        string `yaml:"name" validate:"required,hostname_rfc1123"`
	Description string `yaml:"description"`
	Endpoint    string `yaml:"endpoint" validate:"required,url"`
	// AccessID is normally supplied by the application config.
	AccessID  string `yaml:"access_id"`
	UserAgent string `yaml:"user_agent"`
	Language  string `yaml:"language" validate:"omitempty,alpha,len=2"`
	Timezone  string `yaml:"timezone" validate:"omitempty,timezone"`

	Products   []hafas.ProductDef         `yaml:"products" validate:"dive"`
	ErrorCodes map[string]hafas.ErrorInfo `yaml:"error_codes" validate:"dive,keys,required,endkeys"`

	// Path is "builtin:<name>" for embedded operators.
	Path    string `yaml:"-"`
	Content string `yaml:"-"`
}

// ValidationIssue names the file and field a validation error refers to.
type ValidationIssue struct {
	Path  string
	Field string
	Err   error
}

func (e *ValidationIssue) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Field, e.Err)
}

func (e *ValidationIssue) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseFile decodes and validates an operator file.
func ParseFile(path string, content []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, &ValidationIssue{Path: path, Err: err}
	}
	f.Name = strings.ToLower(strings.TrimSpace(f.Name))
	f.Endpoint = strings.TrimSpace(f.Endpoint)
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return File{}, &ValidationIssue{Path: path, Field: fe.Namespace(), Err: fmt.Errorf("failed on %q", fe.Tag())}
		}
		return File{}, &ValidationIssue{Path: path, Err: err}
	}
	if issue := validateErrorCodes(path, f.ErrorCodes); issue != nil {
		return File{}, issue
	}
	seen := map[string]bool{}
	for _, p := range f.Products {
		if seen[p.ID] {
			return File{}, &ValidationIssue{Path: path, Field: "products", Err: fmt.Errorf("duplicate product %q", p.ID)}
		}
		seen[p.ID] = true
	}
	f.Path = path
	f.Content = string(content)
	return f, nil
}

// validateErrorCodes checks every entry of the table; struct tags on map
// values are not reached by the map-level dive.
func validateErrorCodes(path string, codes map[string]hafas.ErrorInfo) *ValidationIssue {
	keys := make([]string, 0, len(codes))
	for k := range codes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, code := range keys {
		err := validate.Struct(codes[code])
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ValidationIssue{Path: path, Field: "error_codes." + code + "." + fe.Field(), Err: fmt.Errorf("failed on %q", fe.Tag())}
		}
		return &ValidationIssue{Path: path, Field: "error_codes." + code, Err: err}
	}
	return nil
}

// LoadFile reads and parses an operator file from disk.
func LoadFile(path string) (File, error) {
	// #nosec G304 -- operator files come from the configured operators dir.
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := ParseFile(path, b)
	if err != nil {
		return File{}, err
	}
	if want := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)); want != f.Name {
		return File{}, &ValidationIssue{Path: path, Field: "name", Err: fmt.Errorf("name %q does not match file name %q", f.Name, want)}
	}
	return f, nil
}

// Profile returns the operator layer of a hafas profile. The default error
// code table is extended by the operator's own codes.
func (f File) Profile() (hafas.Profile, error) {
	p := hafas.Profile{
		Endpoint:   f.Endpoint,
		AccessID:   f.AccessID,
		UserAgent:  f.UserAgent,
		Language:   f.Language,
		Products:   append([]hafas.ProductDef(nil), f.Products...),
		ErrorCodes: errcodes.With(f.ErrorCodes),
	}
	if tz := strings.TrimSpace(f.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return hafas.Profile{}, fmt.Errorf("operator %s: timezone: %w", f.Name, err)
		}
		p.Timezone = loc
	}
	return p, nil
}

func (f File) fingerprint() string {
	return strings.TrimSpace(f.Path) + "\x00" + f.Content
}

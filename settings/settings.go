// Package settings holds the two closed input records the core consumes:
// Settings (resolved from a CAPO profile by an external collaborator) and
// Request (the parsed CLI invocation). Both refuse construction on missing
// or contradictory fields.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/nrao/yoink/yokerr"
)

var validate = validator.New()

func init() {
	validate.RegisterStructValidation(requestStructLevelValidation, Request{})
}

// Settings is the resolved, profile-derived configuration the core needs.
// All three fields are required; a missing one is a MissingSetting error,
// never a zero value silently accepted.
type Settings struct {
	LocatorServiceURL string `validate:"required,url"`
	ExecutionSite     string `validate:"required"`
	ThreadsPerHost    int    `validate:"required,gt=0"`
}

// NewSettings validates and returns a Settings record.
func NewSettings(locatorServiceURL, executionSite string, threadsPerHost int) (*Settings, error) {
	s := &Settings{
		LocatorServiceURL: locatorServiceURL,
		ExecutionSite:     executionSite,
		ThreadsPerHost:    threadsPerHost,
	}
	if err := validate.Struct(s); err != nil {
		return nil, yokerr.NewMissingSetting(err.Error())
	}
	return s, nil
}

// Request is the immutable, per-run set of inputs derived from CLI flags.
type Request struct {
	ProductLocator   string
	LocationFilePath string
	OutputDir        string `validate:"required"`
	DryRun           bool
	ForceOverwrite   bool
	SDMOnly          bool
	Verbose          bool
	Profile          string
}

// requestStructLevelValidation enforces the mutual exclusivity spec.md
// requires: exactly one of ProductLocator / LocationFilePath, never both,
// never neither.
func requestStructLevelValidation(sl validator.StructLevel) {
	req := sl.Current().Interface().(Request)
	hasLocator := req.ProductLocator != ""
	hasFile := req.LocationFilePath != ""
	switch {
	case !hasLocator && !hasFile:
		sl.ReportError(req.ProductLocator, "ProductLocator", "ProductLocator", "required_without", "")
	case hasLocator && hasFile:
		sl.ReportError(req.ProductLocator, "ProductLocator", "ProductLocator", "excluded_with", "")
	}
}

// NewRequest validates and returns a Request and makes OutputDir absolute.
// An OutputDir that already exists must be a writable directory; one that
// does not exist yet is accepted (creating it is not this function's job).
func NewRequest(productLocator, locationFilePath, outputDir string, dryRun, forceOverwrite, sdmOnly, verbose bool, profile string) (*Request, error) {
	if outputDir == "" {
		outputDir = "."
	}
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, yokerr.NewFileError("cannot resolve output directory", err)
	}

	r := &Request{
		ProductLocator:   productLocator,
		LocationFilePath: locationFilePath,
		OutputDir:        abs,
		DryRun:           dryRun,
		ForceOverwrite:   forceOverwrite,
		SDMOnly:          sdmOnly,
		Verbose:          verbose,
		Profile:          profile,
	}
	if err := validate.Struct(r); err != nil {
		return nil, yokerr.NewMissingSetting(err.Error())
	}

	if err := checkOutputDirWritable(abs); err != nil {
		return nil, err
	}

	return r, nil
}

func checkOutputDirWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			// The directory doesn't exist yet; the retriever creates
			// destination subdirectories as needed, so this is only a
			// problem if the parent that does exist isn't writable.
			return nil
		}
		return yokerr.NewFileError(fmt.Sprintf("cannot stat output directory %s", dir), err)
	}
	if !info.IsDir() {
		return yokerr.NewFileError(fmt.Sprintf("%s is not a directory", dir), nil)
	}
	if info.Mode().Perm()&0o200 == 0 {
		return yokerr.NewFileError(fmt.Sprintf("output directory %s is not writable", dir), nil)
	}
	return nil
}

// envDefaults binds just the CAPO_PROFILE environment variable, used as the
// default for --profile when the flag is not supplied.
type envDefaults struct {
	CapoProfile string `env:"CAPO_PROFILE"`
}

// DefaultProfile returns the profile named by CAPO_PROFILE, or "" if unset.
func DefaultProfile() string {
	var e envDefaults
	if err := env.Parse(&e); err != nil {
		return ""
	}
	return e.CapoProfile
}

package config

import (
	"fmt"
	"strings"

	"github.com/delegat/stackdeploy/internal/errors"
)

// Manifest keys.
const (
	KeyPartOf    = "part-of"
	KeyRepoName  = "repo-name"
	KeySAM       = "SAM"
	KeyPreStage  = "pre-SAM-CloudFormation"
	KeyPostStage = "post-SAM-CloudFormation"
	KeyJobs      = "CloudFormation"
)

// DefaultCapability is used by jobs that do not declare any capabilities.
const DefaultCapability = "CAPABILITY_NAMED_IAM"

// DefaultSAMCapability is used by the packaged application when it does not declare any capabilities.
const DefaultSAMCapability = "CAPABILITY_IAM"

// Manifest is the per-repository deployment manifest.
type Manifest struct {
	PartOf    string     `mapstructure:"part-of"`
	RepoName  string     `mapstructure:"repo-name"`
	SAM       *SAMConfig `mapstructure:"SAM"`
	PreStage  []Job      `mapstructure:"pre-SAM-CloudFormation"`
	PostStage []Job      `mapstructure:"post-SAM-CloudFormation"`
	Jobs      []Job      `mapstructure:"CloudFormation"`

	// Path is the file the manifest was read from.
	Path string `mapstructure:"-"`
}

// SAMConfig describes the packaged application phase.
type SAMConfig struct {
	StackName    string   `mapstructure:"stack-name"`
	Capabilities []string `mapstructure:"capabilities"`
	S3Prefix     string   `mapstructure:"s3-prefix"`
	Regions      any      `mapstructure:"regions"`
	// ExtraArgs are appended to `sam build`, e.g. "--use-container".
	ExtraArgs string `mapstructure:"extra-args"`
	// DeployArgs are appended to `sam deploy`.
	DeployArgs string `mapstructure:"deploy-args"`
	// ParameterSection names a section of the repository parameters layered over the repository scalars.
	ParameterSection string `mapstructure:"parameter-section"`
}

// Job is one CloudFormation deployment declared by the manifest.
type Job struct {
	Name         string   `mapstructure:"name"`
	Template     string   `mapstructure:"template"`
	Account      string   `mapstructure:"account"`
	Regions      any      `mapstructure:"regions"`
	Capabilities []string `mapstructure:"capabilities"`
	// ParameterSection names the section of the repository parameters used by this job. Defaults to Name.
	ParameterSection string `mapstructure:"parameter-section"`
}

// Section returns the name of the parameter section of the job.
func (job *Job) Section() string {
	if job.ParameterSection != "" {
		return job.ParameterSection
	}

	return job.Name
}

// StackCapabilities returns the declared capabilities or the default one.
func (job *Job) StackCapabilities() []string {
	if len(job.Capabilities) == 0 {
		return []string{DefaultCapability}
	}

	return append([]string(nil), job.Capabilities...)
}

// LoadManifest reads and validates a deployment manifest.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := readTOML(path)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{Path: path}

	if err := decodeStrict(path, raw, manifest); err != nil {
		return nil, err
	}

	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	return manifest, nil
}

// Validate checks the manifest schema and reports every problem at once.
func (manifest *Manifest) Validate() error {
	errs := &errors.MultiError{}
	file := manifest.Path

	if strings.TrimSpace(manifest.PartOf) == "" {
		errs = errs.Append(MissingKeyError{File: file, Key: KeyPartOf})
	}

	if strings.TrimSpace(manifest.RepoName) == "" {
		errs = errs.Append(MissingKeyError{File: file, Key: KeyRepoName})
	}

	if manifest.SAM != nil && len(manifest.Jobs) > 0 {
		errs = errs.Append(ConflictingFormsError{File: file})
	}

	if manifest.SAM != nil {
		errs = errs.Append(manifest.SAM.validate(file)...)
	}

	errs = errs.Append(validateJobs(file, KeyPreStage, manifest.PreStage)...)
	errs = errs.Append(validateJobs(file, KeyJobs, manifest.Jobs)...)
	errs = errs.Append(validateJobs(file, KeyPostStage, manifest.PostStage)...)

	return errs.ErrorOrNil()
}

func (sam *SAMConfig) validate(file string) []error {
	var errs []error

	if strings.TrimSpace(sam.StackName) == "" {
		errs = append(errs, MissingKeyError{File: file, Key: KeySAM + ".stack-name"})
	}

	if err := validateRegions(file, KeySAM+".regions", sam.Regions); err != nil {
		errs = append(errs, err)
	}

	return errs
}

// SAMCapabilities returns the declared capabilities of the packaged application or the default one.
func (sam *SAMConfig) SAMCapabilities() []string {
	if len(sam.Capabilities) == 0 {
		return []string{DefaultSAMCapability}
	}

	return append([]string(nil), sam.Capabilities...)
}

// Prefix returns the S3 prefix of the packaged artifacts, defaulting to the stack name.
func (sam *SAMConfig) Prefix() string {
	if sam.S3Prefix != "" {
		return sam.S3Prefix
	}

	return sam.StackName
}

func validateJobs(file, phase string, jobs []Job) []error {
	var (
		errs []error
		seen = map[string]bool{}
	)

	for i, job := range jobs {
		key := fmt.Sprintf("%s[%d]", phase, i)

		if job.Name == "" {
			errs = append(errs, MissingKeyError{File: file, Key: key + ".name"})
		} else {
			key = fmt.Sprintf("%s[%s]", phase, job.Name)

			if seen[job.Name] {
				errs = append(errs, DuplicateJobError{File: file, Phase: phase, Name: job.Name})
			}

			seen[job.Name] = true
		}

		if job.Template == "" {
			errs = append(errs, MissingKeyError{File: file, Key: key + ".template"})
		}

		if job.Account == "" {
			errs = append(errs, MissingKeyError{File: file, Key: key + ".account"})
		}

		if err := validateRegions(file, key+".regions", job.Regions); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

func validateRegions(file, key string, regions any) error {
	switch val := regions.(type) {
	case nil:
		return MissingKeyError{File: file, Key: key}
	case string:
		if strings.TrimSpace(val) == "" {
			return InvalidValueError{File: file, Key: key, Reason: "empty region"}
		}
	case []any:
		if len(val) == 0 {
			return InvalidValueError{File: file, Key: key, Reason: "empty region list"}
		}

		for _, item := range val {
			if str, ok := item.(string); !ok || strings.TrimSpace(str) == "" {
				return InvalidValueError{File: file, Key: key, Reason: fmt.Sprintf("region %v is not a non-empty string", item)}
			}
		}
	case []string:
		if len(val) == 0 {
			return InvalidValueError{File: file, Key: key, Reason: "empty region list"}
		}
	default:
		return InvalidValueError{File: file, Key: key, Reason: fmt.Sprintf("expected a string or a list of strings, got %T", regions)}
	}

	return nil
}

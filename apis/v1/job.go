package v1

// PipelineJob is the top-level document describing a collection run:
// which sources to open, which steps to execute, and where the output goes.
type PipelineJob struct {
	Kind     string          `yaml:"kind" json:"kind" validate:"required,eq=PipelineJob"`
	Metadata Metadata        `yaml:"metadata" json:"metadata"`
	Spec     PipelineJobSpec `yaml:"spec" json:"spec"`
}

type Metadata struct {
	Name string `yaml:"name" json:"name" validate:"required"`
}

type PipelineJobSpec struct {
	Sources []Source    `yaml:"sources,omitempty" json:"sources,omitempty" validate:"dive"`
	Steps   []Step      `yaml:"steps" json:"steps" validate:"required,min=1,dive"`
	Output  *OutputSpec `yaml:"output,omitempty" json:"output,omitempty"`
}

// Source declares a data source. Exactly one of the typed fields should be set.
type Source struct {
	ID   string      `yaml:"id" json:"id" validate:"required"`
	File *FileSource `yaml:"file,omitempty" json:"file,omitempty"`
	HTTP *HTTPSource `yaml:"http,omitempty" json:"http,omitempty"`
}

// FileSource reads from a directory on the local filesystem.
type FileSource struct {
	// Root is the directory the source is rooted at. Relative paths are
	// resolved against the working directory.
	Root string `yaml:"root" json:"root" validate:"required" template:""`
}

// HTTPSource fetches from an HTTP endpoint.
type HTTPSource struct {
	BaseURL string            `yaml:"base_url" json:"base_url" validate:"required" template:""`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Auth    *AuthSpec         `yaml:"auth,omitempty" json:"auth,omitempty"`
	// Timeout in seconds. Defaults to the DATA_SOURCE_TIMEOUT configuration.
	Timeout  *int `yaml:"timeout,omitempty" json:"timeout,omitempty" validate:"omitempty,gt=0"`
	Insecure bool `yaml:"insecure,omitempty" json:"insecure,omitempty"`
}

type AuthSpec struct {
	Basic *BasicAuthSpec `yaml:"basic,omitempty" json:"basic,omitempty"`
}

type BasicAuthSpec struct {
	Username string `yaml:"username,omitempty" json:"username,omitempty" template:""`
	Password string `yaml:"password,omitempty" json:"password,omitempty" template:""`
	// Encoded is a pre-encoded "user:pass" base64 string, used as-is.
	Encoded string `yaml:"encoded,omitempty" json:"encoded,omitempty" template:""`
}

// Step declares a pipeline step. Exactly one of the typed fields should be set.
// Source references a declared source by ID for steps that need one.
type Step struct {
	ID       string        `yaml:"id" json:"id" validate:"required"`
	Source   *string       `yaml:"source,omitempty" json:"source,omitempty"`
	FileScan *FileScanStep `yaml:"file_scan,omitempty" json:"file_scan,omitempty"`
	FileRead *FileReadStep `yaml:"file_read,omitempty" json:"file_read,omitempty"`
	HTTPGet  *HTTPGetStep  `yaml:"http_get,omitempty" json:"http_get,omitempty"`
	Static   *StaticStep   `yaml:"static,omitempty" json:"static,omitempty"`
	Exec     *ExecStep     `yaml:"exec,omitempty" json:"exec,omitempty"`
}

// FileScanStep lists the files of a file source.
type FileScanStep struct {
	// Pattern is a glob matched against file names (default "*").
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty" template:""`
}

// FileReadStep reads a single file from a file source.
type FileReadStep struct {
	Path string `yaml:"path" json:"path" validate:"required" template:""`
	// ParseAs overrides content handling: "json" or "raw".
	ParseAs *string `yaml:"parse_as,omitempty" json:"parse_as,omitempty" validate:"omitempty,oneof=json raw"`
}

// HTTPGetStep performs a GET against an http source.
type HTTPGetStep struct {
	Path         string            `yaml:"path" json:"path" template:""`
	Headers      map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Params       map[string]string `yaml:"params,omitempty" json:"params,omitempty"`
	ResponseType string            `yaml:"response_type,omitempty" json:"response_type,omitempty" validate:"omitempty,oneof=json raw"`
}

// StaticStep injects a fixed value, either inline or from a file.
type StaticStep struct {
	Filepath *string `yaml:"filepath,omitempty" json:"filepath,omitempty" template:""`
	Value    *string `yaml:"value,omitempty" json:"value,omitempty" template:""`
	ParseAs  *string `yaml:"parse_as,omitempty" json:"parse_as,omitempty" validate:"omitempty,oneof=json raw"`
}

// ExecStep runs an external program and captures its output as a result.
type ExecStep struct {
	Program    []string          `yaml:"program" json:"program" validate:"required,min=1" template:""`
	Input      map[string]any    `yaml:"input,omitempty" json:"input,omitempty"`
	WorkingDir *string           `yaml:"working_dir,omitempty" json:"working_dir,omitempty" template:""`
	Timeout    *string           `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Format     *string           `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=json raw"`
	Env        map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// OutputSpec configures how results are written.
type OutputSpec struct {
	// Encoding configures the output format (default: json with compact output).
	Encoding *EncodingSpec `yaml:"encoding,omitempty" json:"encoding,omitempty"`

	// Sink configures where output is written (default: stdout).
	Sink *SinkSpec `yaml:"sink,omitempty" json:"sink,omitempty"`

	// Archive bundles all output files into a single tar archive.
	Archive *ArchiveSpec `yaml:"archive,omitempty" json:"archive,omitempty"`
}

// EncodingSpec configures the encoder (one of the fields should be set).
type EncodingSpec struct {
	JSON *JSONEncodingSpec `yaml:"json,omitempty" json:"json,omitempty"`
}

// JSONEncodingSpec configures JSON encoding.
type JSONEncodingSpec struct {
	// Indent specifies indentation. Empty = compact, "  " = 2 spaces, "\t" = tabs.
	Indent string `yaml:"indent,omitempty" json:"indent,omitempty"`
}

// SinkSpec configures the output sink (one of the fields should be set).
type SinkSpec struct {
	Stdout     *StdoutSpec     `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Filesystem *FilesystemSpec `yaml:"filesystem,omitempty" json:"filesystem,omitempty"`
	S3         *S3Spec         `yaml:"s3,omitempty" json:"s3,omitempty"`
}

// StdoutSpec configures stdout output (no options currently).
type StdoutSpec struct{}

// FilesystemSpec configures folder output with one file per step.
type FilesystemSpec struct {
	// Path is the directory to write output files to. Defaults to the
	// configured output directory.
	Path   *string `yaml:"path,omitempty" json:"path,omitempty" template:""`
	Prefix *string `yaml:"prefix,omitempty" json:"prefix,omitempty" template:""`
}

// S3Spec configures output to S3-compatible object storage.
type S3Spec struct {
	Bucket         string             `yaml:"bucket" json:"bucket" validate:"required" template:""`
	Region         *string            `yaml:"region,omitempty" json:"region,omitempty" template:""`
	Endpoint       *string            `yaml:"endpoint,omitempty" json:"endpoint,omitempty" template:""`
	Prefix         *string            `yaml:"prefix,omitempty" json:"prefix,omitempty" template:""`
	ForcePathStyle bool               `yaml:"force_path_style,omitempty" json:"force_path_style,omitempty"`
	Credentials    *S3CredentialsSpec `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

type S3CredentialsSpec struct {
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" template:""`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" template:""`
}

// ArchiveSpec configures tar archive bundling.
type ArchiveSpec struct {
	// Name of the archive file. Defaults to the job name plus the archive extension.
	Name string `yaml:"name,omitempty" json:"name,omitempty" template:""`
	// Compression is one of "gzip", "zstd" or "none" (default "gzip").
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty" validate:"omitempty,oneof=gzip zstd none"`
}

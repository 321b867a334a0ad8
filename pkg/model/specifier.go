package model

// WorkflowCallSpecifierKind discriminates a job's uses: target for calling
// another workflow.
type WorkflowCallSpecifierKind string

const (
	WorkflowCallFilesystem WorkflowCallSpecifierKind = "filesystem"
	WorkflowCallRepository WorkflowCallSpecifierKind = "repository"
)

// WorkflowCallSpecifier is the parsed form of a job's uses: value when it
// references a callable workflow.
type WorkflowCallSpecifier struct {
	Kind WorkflowCallSpecifierKind
	Raw  string

	// Path is set when Kind == WorkflowCallFilesystem.
	Path string

	// Repository fields, set when Kind == WorkflowCallRepository.
	Owner    string
	Repo     string
	Ref      string
	Filename string
}

// Specifier returns the raw specifier string the caller wrote. pkg/cache
// builds its repository cache key from the parsed fields, not from this string.
func (s WorkflowCallSpecifier) Specifier() string { return s.Raw }

// ActionSpecifierKind discriminates a step's uses: target.
type ActionSpecifierKind string

const (
	ActionDocker     ActionSpecifierKind = "docker"
	ActionFilesystem ActionSpecifierKind = "filesystem"
	ActionRepository ActionSpecifierKind = "repository"
)

// ActionSpecifier is the parsed form of a step's uses: value.
type ActionSpecifier struct {
	Kind ActionSpecifierKind
	Raw  string

	// URI is set when Kind == ActionDocker.
	URI string

	// Path is set when Kind == ActionFilesystem.
	Path string

	// Repository fields, set when Kind == ActionRepository.
	Owner         string
	Repo          string
	Subdirectory  string
	Ref           string
}

// Specifier returns the raw specifier string the caller wrote. pkg/cache
// builds its repository cache key from the parsed fields, not from this string.
func (s ActionSpecifier) Specifier() string { return s.Raw }

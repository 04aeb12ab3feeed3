package launcher

import (
	"runtime"

	"github.com/lodestonemc/lodestone/internals/instances"
	"github.com/lodestonemc/lodestone/internals/minecraft"
)

// Credentials is the account data needed to fill launch placeholders
type Credentials struct {
	PlayerName  string
	UUID        string
	AccessToken string
	UserType    string
	ClientID    string
	XUID        string
}

// Resolution is an optional window size request
type Resolution struct {
	Width  int
	Height int
}

// Options bundle everything argument construction needs
type Options struct {
	Instance   *instances.Instance
	Descriptor *minecraft.VersionDescriptor
	// Credentials may be nil, then offline placeholder values are used
	Credentials *Credentials
	// MemoryMiB is the -Xmx value. 0 derives it from system memory
	MemoryMiB  int
	Resolution *Resolution
	Demo       bool
	// Java is the binary used to launch. empty means "java" from PATH
	Java string

	LauncherName    string
	LauncherVersion string
}

// LaunchSpec is a fully resolved launch command, ready to be handed to
// a process spawner
type LaunchSpec struct {
	// Java is the path of the java binary
	Java string
	// JVMArgs in order, including the classpath pair
	JVMArgs   []string
	MainClass string
	GameArgs  []string
	// WorkingDir the game process runs in (the instance minecraft dir)
	WorkingDir string
}

// Args returns the full java argument list (JVM args, main class, game args)
func (s *LaunchSpec) Args() []string {
	args := make([]string, 0, len(s.JVMArgs)+1+len(s.GameArgs))
	args = append(args, s.JVMArgs...)
	args = append(args, s.MainClass)
	args = append(args, s.GameArgs...)
	return args
}

// cpSeparator is the platform classpath separator
func cpSeparator() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}

// Build assembles the launch specification for an instance. This is
// the single entry point over classpath & argument construction
func Build(opts *Options) (*LaunchSpec, error) {
	desc := opts.Descriptor
	gen := minecraft.DetectGeneration(desc.MinecraftVersion(), desc)
	features := featureMap(gen, opts)

	classpath, err := BuildClasspath(opts.Instance, desc, features)
	if err != nil {
		return nil, err
	}

	nativesDir := opts.Instance.NativesDir(desc.ID)
	placeholders := placeholderMap(opts, gen, classpath, nativesDir)

	java := opts.Java
	if java == "" {
		java = "java"
	}

	spec := &LaunchSpec{
		Java:       java,
		JVMArgs:    buildJVMArgs(opts, gen, features, placeholders, classpath, nativesDir),
		MainClass:  minecraft.MainClassFor(desc, gen),
		GameArgs:   buildGameArgs(opts, gen, features, placeholders),
		WorkingDir: opts.Instance.McDir(),
	}
	return spec, nil
}

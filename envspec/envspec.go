// Package envspec provisions a reproducible analysis workspace.
//
// A declarative descriptor (workbench.yaml) names an interpreter, a
// project-local installation prefix, search-path variables that must point
// into that prefix, and optional packages installed on first use. The
// bootstrap hook is idempotent: a package already present under the prefix
// is never installed again, and entering the workspace twice performs no
// duplicate work.
package envspec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PrefixVar is exported into the workspace environment with the absolute
// prefix path.
const PrefixVar = "STONKS_PREFIX"

// placeholder expanded to the absolute prefix path in install commands.
const prefixPlaceholder = "{prefix}"

// Descriptor declares what a constructed workspace must contain.
type Descriptor struct {
	// Interpreter is the command the workspace is built around,
	// e.g. "python3". Informational: it must already be on the PATH.
	Interpreter string `yaml:"interpreter"`

	// Prefix is the project-local installation prefix directory,
	// relative paths resolve against the descriptor file location.
	Prefix string `yaml:"prefix"`

	// Packages are installed under Prefix when absent.
	Packages []Package `yaml:"packages"`

	// Paths are the search-path variables redirected into Prefix.
	Paths []PathVar `yaml:"paths"`

	dir string // directory of the descriptor file
}

// Package is one conditionally-installed dependency.
type Package struct {
	Name string `yaml:"name"`

	// Probe is a path glob relative to the prefix whose existence proves
	// the package is installed, e.g. "lib/python*/site-packages/yfinance".
	Probe string `yaml:"probe"`

	// Install is the command run when the probe finds nothing. The token
	// {prefix} expands to the absolute prefix path.
	Install []string `yaml:"install"`
}

// PathVar augments one search-path environment variable with a directory
// under the prefix.
type PathVar struct {
	Name string `yaml:"name"` // e.g. "PATH", "PYTHONPATH"
	Dir  string `yaml:"dir"`  // relative to the prefix, e.g. "bin"
}

// Load reads and validates a descriptor file.
func Load(path string) (*Descriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read descriptor %q: %w", path, err)
	}
	d, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("invalid descriptor %q: %w", path, err)
	}
	if d.dir, err = filepath.Abs(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return d, nil
}

// Parse decodes and validates a descriptor. Relative prefixes resolve
// against the current directory; Load resolves them against the file.
func Parse(content []byte) (*Descriptor, error) {
	d := new(Descriptor)
	if err := yaml.Unmarshal(content, d); err != nil {
		return nil, err
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Descriptor) validate() error {
	if d.Prefix == "" {
		return fmt.Errorf("missing 'prefix'")
	}
	for i, p := range d.Packages {
		if p.Name == "" {
			return fmt.Errorf("package %d: missing 'name'", i)
		}
		if p.Probe == "" {
			return fmt.Errorf("package %q: missing 'probe'", p.Name)
		}
		if len(p.Install) == 0 {
			return fmt.Errorf("package %q: missing 'install' command", p.Name)
		}
	}
	for i, v := range d.Paths {
		if v.Name == "" {
			return fmt.Errorf("path %d: missing 'name'", i)
		}
		if strings.ContainsRune(v.Name, '=') {
			return fmt.Errorf("path %q: invalid variable name", v.Name)
		}
	}
	return nil
}

// AbsPrefix returns the absolute installation prefix path.
func (d *Descriptor) AbsPrefix() string {
	if filepath.IsAbs(d.Prefix) {
		return filepath.Clean(d.Prefix)
	}
	base := d.dir
	if base == "" {
		base, _ = os.Getwd()
	}
	return filepath.Join(base, d.Prefix)
}

// Environ returns a copy of base with every declared search-path variable
// augmented: the prefix directory is prepended, and any prior value is
// preserved whether it was set, empty or unset. The prefix itself is
// exported under PrefixVar. base is typically os.Environ(); it is not
// modified.
func (d *Descriptor) Environ(base []string) []string {
	env := make([]string, len(base))
	copy(env, base)

	prefix := d.AbsPrefix()
	env = setenv(env, PrefixVar, prefix)

	for _, v := range d.Paths {
		dir := filepath.Join(prefix, v.Dir)
		if prior, ok := getenv(env, v.Name); ok && prior != "" {
			dir = dir + string(os.PathListSeparator) + prior
		}
		env = setenv(env, v.Name, dir)
	}
	return env
}

// getenv looks a variable up in an environment list.
func getenv(env []string, name string) (value string, ok bool) {
	for _, entry := range env {
		if v, found := strings.CutPrefix(entry, name+"="); found {
			return v, true
		}
	}
	return "", false
}

// setenv sets or replaces a variable in an environment list.
func setenv(env []string, name, value string) []string {
	entry := name + "=" + value
	for i, e := range env {
		if strings.HasPrefix(e, name+"=") {
			env[i] = entry
			return env
		}
	}
	return append(env, entry)
}

// Present reports whether the package's probe matches anything under the
// prefix. This is the idempotence check of the bootstrap hook.
func (p Package) Present(prefix string) bool {
	matches, err := filepath.Glob(filepath.Join(prefix, p.Probe))
	return err == nil && len(matches) > 0
}

// expand substitutes the {prefix} placeholder in an install command.
func (p Package) expand(prefix string) []string {
	argv := make([]string, len(p.Install))
	for i, arg := range p.Install {
		argv[i] = strings.ReplaceAll(arg, prefixPlaceholder, prefix)
	}
	return argv
}

package envspec

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
)

// Bootstrap makes the described environment real: it creates the prefix
// directory and installs every package whose probe finds nothing. Packages
// already present are skipped, so running Bootstrap on every workspace
// entry is cheap and performs no duplicate install.
//
// It returns the names of the packages it installed. There is no retry: a
// failing installer aborts the bootstrap and its error is returned as-is,
// together with the installs that did complete.
func (d *Descriptor) Bootstrap(ctx context.Context) (installed []string, err error) {
	prefix := d.AbsPrefix()
	if err := os.MkdirAll(prefix, 0755); err != nil {
		return nil, fmt.Errorf("cannot create prefix %q: %w", prefix, err)
	}

	env := d.Environ(os.Environ())
	for _, p := range d.Packages {
		if p.Present(prefix) {
			continue
		}

		argv := p.expand(prefix)
		log.Printf("installing %q: %v", p.Name, argv)

		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Env = env
		// installer chatter goes to stderr: stdout belongs to the caller,
		// e.g. the export lines eval'd by the shell.
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return installed, fmt.Errorf("installing %q: %w", p.Name, err)
		}
		installed = append(installed, p.Name)
	}
	return installed, nil
}

// Missing returns the packages whose probe finds nothing, without
// installing anything.
func (d *Descriptor) Missing() []Package {
	prefix := d.AbsPrefix()
	var missing []Package
	for _, p := range d.Packages {
		if !p.Present(prefix) {
			missing = append(missing, p)
		}
	}
	return missing
}

// Package loader reads a flat RV64 binary image from disk and wires it into
// a freshly constructed bus and CPU, ready for the execute loop to run.
package loader

import (
	"fmt"
	"os"

	"github.com/rv64emu/rv64emu/bus"
	"github.com/rv64emu/rv64emu/dram"
	"github.com/rv64emu/rv64emu/vm"
)

// Load reads the binary image at path, rejects it if it is larger than DRAM,
// and returns a CPU whose bus already has the image copied in at dram.Base.
func Load(path string) (*vm.CPU, error) {
	// #nosec G304 -- path is an operator-supplied CLI argument, the expected use of this tool
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}

	if uint64(len(image)) > dram.Size {
		return nil, fmt.Errorf("loader: %s is %d bytes, exceeds DRAM size %d", path, len(image), dram.Size)
	}

	b, err := bus.New(image)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	return vm.New(b), nil
}

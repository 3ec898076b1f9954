// Package seed loads the JSON workload file that becomes a run's immutable
// core.Seed. Loading is intentionally kept outside
// internal/model and internal/core: those packages operate on already-valid
// in-memory values, while this package is where file format and malformed
// input are dealt with.
package seed

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/TheBuccaneer/fgt-nvme-robustness/internal/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// wireCommand mirrors the on-disk shape of a single command entry. Fields
// unused by a given Type are simply left at their zero value.
type wireCommand struct {
	Type    string `json:"type"`
	LBA     uint32 `json:"lba"`
	Len     uint32 `json:"len"`
	Pattern uint32 `json:"pattern"`
}

// wireSeed mirrors the on-disk shape of a seed file.
type wireSeed struct {
	SeedID   string        `json:"seed_id"`
	Commands []wireCommand `json:"commands"`
}

// Load reads and parses the seed file at path.
func Load(path string) (core.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Seed{}, errors.Wrapf(err, "seed: read %s", path)
	}
	return Parse(data)
}

// Parse decodes raw JSON bytes into a core.Seed.
func Parse(data []byte) (core.Seed, error) {
	var w wireSeed
	if err := json.Unmarshal(data, &w); err != nil {
		return core.Seed{}, errors.Wrap(err, "seed: decode json")
	}

	commands := make([]core.Command, len(w.Commands))
	for i, wc := range w.Commands {
		cmdType, err := parseType(wc.Type)
		if err != nil {
			return core.Seed{}, errors.Wrapf(err, "seed: command %d", i)
		}
		commands[i] = core.Command{
			Type:    cmdType,
			LBA:     wc.LBA,
			Len:     wc.Len,
			Pattern: wc.Pattern,
		}
	}

	return core.Seed{SeedID: w.SeedID, Commands: commands}, nil
}

func parseType(s string) (core.CommandType, error) {
	switch s {
	case "WRITE":
		return core.CmdWrite, nil
	case "READ":
		return core.CmdRead, nil
	case "FENCE":
		return core.CmdFence, nil
	case "WRITE_VISIBLE":
		return core.CmdWriteVisible, nil
	default:
		return 0, errors.Errorf("unknown command type %q", s)
	}
}

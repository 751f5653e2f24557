package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	Named baud-rate profile table (rtty, bell103, bell202,
 *		v21), loaded from an embedded YAML document at package
 *		init.  Generalizes the source's scattered literal-mode
 *		handling (spec.md §6) into data.
 *
 *---------------------------------------------------------------*/

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var profilesYAML []byte

// Profile is one named parameter set: rate + mark/space frequencies +
// stop-bit count + default data width.
type Profile struct {
	Baud     float64 `yaml:"baud"`
	MarkHz   float64 `yaml:"mark_hz"`
	SpaceHz  float64 `yaml:"space_hz"`
	StopBits float64 `yaml:"stop_bits"`
	DataBits int     `yaml:"data_bits"`
}

// ProfileTable maps a profile name (as typed on the command line, e.g.
// "rtty") to its parameters.
type ProfileTable map[string]Profile

// LoadProfiles parses the embedded profile table.  It panics on error
// since the table is a compiled-in asset, never user input.
func LoadProfiles() ProfileTable {
	var table ProfileTable
	if err := yaml.Unmarshal(profilesYAML, &table); err != nil {
		panic("rf103: embedded profiles.yaml is malformed: " + err.Error())
	}
	return table
}

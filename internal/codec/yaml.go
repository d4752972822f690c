package codec

import (
	"fmt"
	"io"

	"elkbridge/internal/domain"

	"gopkg.in/yaml.v3"
)

// ParseStructure reads a crystal structure from a YAML document:
//
//	name: bcc-Fe
//	lattice:
//	  - [2.87, 0.0, 0.0]
//	  - [0.0, 2.87, 0.0]
//	  - [0.0, 0.0, 2.87]
//	sites:
//	  - symbol: Fe
//	    position: [0.0, 0.0, 0.0]
func ParseStructure(r io.Reader) (*domain.Structure, error) {
	var st domain.Structure
	if err := yaml.NewDecoder(r).Decode(&st); err != nil {
		return nil, fmt.Errorf("%w: parsing structure: %v", domain.ErrValidation, err)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return &st, nil
}

// ParseRunParams reads ELK run parameters from a YAML mapping of block name
// to block body, e.g.
//
//	ngridk: 4 4 4
//	rgkmax: "7.0"
func ParseRunParams(r io.Reader) (domain.RunParams, error) {
	var params domain.RunParams
	if err := yaml.NewDecoder(r).Decode(&params); err != nil {
		if err == io.EOF {
			return domain.RunParams{}, nil
		}
		return nil, fmt.Errorf("%w: parsing run parameters: %v", domain.ErrValidation, err)
	}
	return params, nil
}

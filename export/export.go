// Package export renders address sets as text, JSON or YAML.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/iamainow/routes/net/address"
)

// Record is the JSON and YAML shape of one subnet.
type Record struct {
	Hostname string `json:"hostname" yaml:"hostname"`
}

func records(subnets []address.Subnet) []Record {
	out := make([]Record, len(subnets))
	for i, s := range subnets {
		out[i] = Record{Hostname: s.String()}
	}
	return out
}

// WriteSubnets writes one a.b.c.d/n per line.
func WriteSubnets(w io.Writer, subnets []address.Subnet) error {
	bw := bufio.NewWriter(w)
	for _, s := range subnets {
		fmt.Fprintln(bw, s)
	}
	return bw.Flush()
}

// WriteRanges writes one a.b.c.d-a.b.c.d per line.
func WriteRanges(w io.Writer, ranges []address.Range) error {
	bw := bufio.NewWriter(w)
	for _, r := range ranges {
		fmt.Fprintln(bw, r)
	}
	return bw.Flush()
}

func WriteJSON(w io.Writer, subnets []address.Subnet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(records(subnets)), "encoding json")
}

func WriteYAML(w io.Writer, subnets []address.Subnet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(subnets)); err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	return errors.Wrap(enc.Close(), "encoding yaml")
}

// Format expands the placeholders of pattern for s:
//
//	%subnet        network address
//	%cidr          prefix length
//	%mask          dotted mask
//	%firstaddress  first address of the block
//	%lastaddress   last address of the block
//	%count         number of addresses
func Format(pattern string, s address.Subnet) string {
	return strings.NewReplacer(
		"%subnet", s.Base.String(),
		"%cidr", strconv.Itoa(s.Mask.PrefixLen()),
		"%mask", s.Mask.String(),
		"%firstaddress", s.First().String(),
		"%lastaddress", s.Last().String(),
		"%count", strconv.FormatUint(uint64(s.Size()), 10),
	).Replace(pattern)
}

// WriteFormat writes Format(pattern, s) on its own line for every subnet.
func WriteFormat(w io.Writer, pattern string, subnets []address.Subnet) error {
	bw := bufio.NewWriter(w)
	for _, s := range subnets {
		fmt.Fprintln(bw, Format(pattern, s))
	}
	return bw.Flush()
}

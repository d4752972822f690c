package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"elkbridge/internal/domain"
)

// ReadFloatSeries reads one float per line from an ELK scalar output file
// (TOTENERGY.OUT, DTOTENERGY.OUT, RMSDVS.OUT, ...). Only the first field of
// each line is used; trailing `: comment` annotations and blank lines are
// ignored.
func ReadFloatSeries(r io.Reader) ([]float64, error) {
	var values []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading output: %w", err)
	}
	return values, nil
}

// ReadScalar reads the final value of a scalar output file. Files holding a
// single value and files holding a per-iteration series both resolve to the
// last written number.
func ReadScalar(r io.Reader) (float64, error) {
	values, err := ReadFloatSeries(r)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no values in output file", domain.ErrValidation)
	}
	return values[len(values)-1], nil
}

// ReadConverged reports whether an INFO.OUT stream declares that the
// self-consistent loop reached its convergence targets.
func ReadConverged(r io.Reader) (bool, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), "Convergence targets achieved") {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("reading INFO.OUT: %w", err)
	}
	return false, nil
}

// ReadCountHeader reads the leading integer of a file's first line, the
// `nkpt : ...` header convention of KPOINTS.OUT.
func ReadCountHeader(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return 0, fmt.Errorf("%w: empty output file", domain.ErrValidation)
	}
	return leadingInt(scanner.Text())
}

// ReadEigvalHeader reads the nkpt and nstsv counts from the first two lines
// of EIGVAL.OUT.
func ReadEigvalHeader(r io.Reader) (nkpt, nstsv int, err error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return 0, 0, fmt.Errorf("%w: empty EIGVAL.OUT", domain.ErrValidation)
	}
	if nkpt, err = leadingInt(scanner.Text()); err != nil {
		return 0, 0, err
	}
	if !scanner.Scan() {
		return 0, 0, fmt.Errorf("%w: truncated EIGVAL.OUT header", domain.ErrValidation)
	}
	if nstsv, err = leadingInt(scanner.Text()); err != nil {
		return 0, 0, err
	}
	return nkpt, nstsv, nil
}

// leadingInt parses the first whitespace-separated field of a line as an
// integer.
func leadingInt(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: blank header line", domain.ErrValidation)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: header %q: %v", domain.ErrValidation, line, err)
	}
	return n, nil
}

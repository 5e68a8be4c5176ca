// Command numtheory is an interactive front end over the factor and dlog
// packages: prime factorization in mode 1, discrete logarithm solving in
// mode 2.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/blck-snwmn/numtheory/dlog"
	"github.com/blck-snwmn/numtheory/factor"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout))
}

func run(in *os.File, out *os.File) int {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Enter 1 for prime factorization, 2 for discrete log: ")
	mode, err := readLine(reader)
	if err != nil {
		fmt.Fprintln(out, "failed to read mode:", err)
		return 1
	}

	switch strings.TrimSpace(mode) {
	case "1":
		return runFactorize(reader, out)
	case "2":
		return runDiscreteLog(reader, out)
	default:
		fmt.Fprintln(out, "unrecognized mode:", mode)
		return 1
	}
}

func runFactorize(reader *bufio.Reader, out *os.File) int {
	fmt.Fprint(out, "n = ")
	n, err := readBigInt(reader)
	if err != nil {
		fmt.Fprintln(out, "failed to parse n:", err)
		return 1
	}

	powers, err := factor.Factorize(n)
	if err != nil {
		var incomplete *factor.IncompleteError
		if errors.As(err, &incomplete) {
			fmt.Fprintln(out, formatFactorization(incomplete.Found))
			fmt.Fprintln(out, err)
			return 1
		}
		fmt.Fprintln(out, "factorization failed:", err)
		return 1
	}

	fmt.Fprintln(out, formatFactorization(powers))
	return 0
}

func runDiscreteLog(reader *bufio.Reader, out *os.File) int {
	fmt.Fprint(out, "g = ")
	g, err := readBigInt(reader)
	if err != nil {
		fmt.Fprintln(out, "failed to parse g:", err)
		return 1
	}
	fmt.Fprint(out, "h = ")
	h, err := readBigInt(reader)
	if err != nil {
		fmt.Fprintln(out, "failed to parse h:", err)
		return 1
	}
	fmt.Fprint(out, "n = ")
	n, err := readBigInt(reader)
	if err != nil {
		fmt.Fprintln(out, "failed to parse n:", err)
		return 1
	}

	result, err := dlog.Solve(g, h, n)
	switch {
	case err == nil:
		fmt.Fprintf(out, "Discrete log result: %s\n + %sk\n", result.Exponent, result.Period)
		return 0
	case errors.Is(err, dlog.ErrNoSolution):
		fmt.Fprintln(out, "no discrete log exists for the given g, h, n")
		return 0
	default:
		fmt.Fprintln(out, "discrete log failed:", err)
		return 1
	}
}

func formatFactorization(powers []factor.PrimePower) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range powers {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%s, %d)", p.Prime, p.Exponent)
	}
	b.WriteByte(']')
	return b.String()
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

func readBigInt(reader *bufio.Reader) (*big.Int, error) {
	line, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(strings.TrimSpace(line), 10)
	if !ok {
		return nil, fmt.Errorf("not a valid integer: %q", line)
	}
	return n, nil
}

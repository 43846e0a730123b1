package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/urlkit/urlkit/email"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("emailcheck", flag.ContinueOnError)
	flags.SetOutput(stderr)
	indent := flags.Bool("indent", false, "Pretty-print JSON output")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	addrs := flags.Args()
	if len(addrs) == 0 {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				addrs = append(addrs, line)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(stderr, "emailcheck: read stdin: %v\n", err)
			return 2
		}
	}

	failed := 0
	for _, addr := range addrs {
		if err := check(stdout, addr, *indent); err != nil {
			// Failures share stdout with the JSON results, one line each.
			fmt.Fprintf(stdout, "%s: %v\n", addr, err)
			failed++
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func check(stdout io.Writer, addr string, indent bool) error {
	v, err := email.Validate(addr)
	if err != nil {
		return err
	}

	var out []byte
	if indent {
		out, err = sonic.MarshalIndent(v, "", "  ")
	} else {
		out, err = sonic.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(stdout, string(out))
	return nil
}

package main

import (
	"fmt"
	"os"

	"amini/internal/sample"
)

var sampleCatalog = map[string]string{
	"division":     sample.Division,
	"modexp":       sample.ModExp,
	"sumofsquares": sample.SumOfSquares,
	"fizzbuzz":     sample.FizzBuzz,
	"binarysearch": sample.BinarySearch,
	"phifromentry": sample.PhiFromEntry,
}

// loadSource resolves exactly one of a file path or a built-in sample
// name to IL source text.
func loadSource(filePath, sampleName string) (string, error) {
	if filePath != "" && sampleName != "" {
		return "", fmt.Errorf("specify either a file or --sample, not both")
	}
	if sampleName != "" {
		src, ok := sampleCatalog[sampleName]
		if !ok {
			return "", fmt.Errorf("unknown sample %q (known: %s)", sampleName, sampleNames())
		}
		return src, nil
	}
	if filePath == "" {
		return "", fmt.Errorf("specify a source file or --sample")
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filePath, err)
	}
	return string(data), nil
}

func sampleNames() string {
	names := []string{"division", "modexp", "sumofsquares", "fizzbuzz", "binarysearch", "phifromentry"}
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

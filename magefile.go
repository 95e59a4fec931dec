//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - build the binary.
var Default = Build

// Build builds the speck binary into bin/.
func Build() error {
	return sh.RunV("go", "build", "-o", "bin/speck", "./cmd/speck")
}

// Test runs the test suite.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Cover runs tests with coverage and prints the per-function report.
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Demo pipes this repo's own tests through a freshly built speck.
func Demo() error {
	mg.Deps(Build)
	return sh.RunV("sh", "-c", "go test -json ./... | ./bin/speck")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("cleaning bin/ and coverage.out")
	_ = sh.Rm("coverage.out")
	return sh.Rm("bin")
}

//go:build !tinygo && !baremetal

package main

import (
	"github.com/fatih/color"
)

func Cyan(s string) string {
	return color.New(color.FgHiCyan).SprintFunc()(s)
}

func Green(s string) string {
	return color.New(color.FgHiGreen).SprintFunc()(s)
}

func Yellow(s string) string {
	return color.New(color.FgHiYellow).SprintFunc()(s)
}

func Red(s string) string {
	return color.New(color.FgHiRed).SprintFunc()(s)
}

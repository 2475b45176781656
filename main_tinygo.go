//go:build tinygo

package main

import (
	"lcdclock/app"
	"lcdclock/hal"
)

func main() {
	app.Run(hal.New())
}

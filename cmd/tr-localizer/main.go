package main

import "tr-localizer/internal/cli"

func main() {
	cli.Execute()
}

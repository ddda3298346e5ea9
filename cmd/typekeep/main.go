package main

import "github.com/mvp-joe/typekeep/internal/cli"

func main() {
	cli.Execute()
}

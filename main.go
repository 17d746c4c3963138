package main

import "github.com/papdieo/papdieo/cmd/papdieo"

func main() {
	papdieo.Execute()
}

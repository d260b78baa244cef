package main

import (
	"github.com/dszqbsm/newscrawler/cmd"
)

func main() {
	cmd.Execute()
}

package main

import "github.com/shouni/go-geeknews/cmd"

func main() {
	cmd.Execute()
}

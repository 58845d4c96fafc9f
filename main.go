package main

import "github.com/jiralog/jiralog/cmd"

func main() {
	cmd.Execute()
}

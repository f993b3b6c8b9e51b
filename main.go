package main

import "github.com/fahrizalm/staffdesk/cmd"

func main() {
	cmd.Execute()
}

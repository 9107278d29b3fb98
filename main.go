package main

import "github.com/appliedrecognition/face-template-r300/cmd"

func main() {
	cmd.Execute()
}

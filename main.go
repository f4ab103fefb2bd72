package main

import "github.com/huyng-sec/cyberhealth/cmd"

var execCmd = cmd.Execute

func main() {
	execCmd()
}

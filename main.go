package main

import "github.com/wenzapen/easysql/cmd"

func main() {
	cmd.Execute()
}

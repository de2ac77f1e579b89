package main

import "pixeldue/cmd/pixeldue/root"

func main() {
	root.Execute()
}

package main

import (
	ccsds "github.com/doismellburning/ccsdsframe/src"
)

func main() {
	ccsds.EncodeMain()
}

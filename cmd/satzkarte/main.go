// Command satzkarte generates, records and exports drawing-die set cards.
package main

import "github.com/mesh-intelligence/satzkarte/internal/cli"

func main() {
	cli.Execute()
}

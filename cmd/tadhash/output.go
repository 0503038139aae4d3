package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/jchantrell/tadhash/internal/address"
	"github.com/jchantrell/tadhash/internal/resolve"
)

var (
	hashColor = color.New(color.FgCyan)
	pathColor = color.New(color.FgGreen)
	missColor = color.New(color.FgYellow)
)

func printAddress(w io.Writer, addr address.AssetAddress) {
	if addr.HasPathHash {
		fmt.Fprintf(w, "%s\tpath=%s\tcontent=%s\tfinal=%s\n",
			pathColor.Sprint(addr.RawPath),
			hashColor.Sprint(address.FormatHash(addr.PathHash)),
			hashColor.Sprint(address.FormatHash(addr.ContentHash)),
			hashColor.Sprint(address.FormatHash(addr.FinalHash)))
		return
	}

	fmt.Fprintf(w, "%s\tcontent=%s\tfinal=%s\n",
		pathColor.Sprint(addr.RawPath),
		hashColor.Sprint(address.FormatHash(addr.ContentHash)),
		hashColor.Sprint(address.FormatHash(addr.FinalHash)))
}

func printEntry(w io.Writer, e resolve.Entry) {
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		hashColor.Sprint(address.FormatHash(e.Hash)),
		hashColor.Sprint(address.FormatHash(e.PathHash)),
		pathColor.Sprint(e.Path))
}

func printMiss(w io.Writer, query string) {
	fmt.Fprintf(w, "%s\n", missColor.Sprintf("not found: %s", query))
}

// Command smoldtb parses a flattened device tree / device tree blob file
// and prints a summary of its contents. It exists to exercise the fdt
// package end to end, the way the original project's readfdt driver did.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/smoldtb/smoldtb-go"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <filename.dtb>\n\n"+
			"Parses a flattened device tree/device tree blob and prints a\n"+
			"summary of its contents.\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(0)
	}

	if err := displayFile(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "smoldtb: %s\n", err)
		os.Exit(1)
	}
}

func displayFile(path string) error {
	blob, unmap, err := loadBlob(path)
	if err != nil {
		return err
	}
	defer unmap()

	p, err := fdt.NewParser(blob, fdt.Options{
		Malloc: fdt.GoMalloc,
		OnError: func(why string) {
			fmt.Fprintf(os.Stderr, "smoldtb error: %s\n", why)
		},
	})
	if err != nil {
		return err
	}

	for _, root := range p.Roots() {
		printNode(p, root, 0)
	}

	runScenarios(p)
	return nil
}

func printNode(p *fdt.Parser, node *fdt.Node, indent int) {
	if node == nil {
		return
	}
	pad := strings.Repeat(" ", indent)
	stat := p.Stat(node)
	fmt.Printf("%s[+] %s: %d siblings, %d children, %d properties.\n",
		pad, stat.Name, stat.SiblingCount, stat.ChildCount, stat.PropCount)

	for i := uint32(0); ; i++ {
		prop := p.GetProp(node, i)
		if prop == nil {
			break
		}
		fmt.Printf("%s  | %s\n", pad, prop.Name)
	}

	for child := p.GetChild(node); child != nil; child = p.GetSibling(child) {
		printNode(p, child, indent+2)
	}
}

// runScenarios exercises the four worked queries a device tree consumer
// typically runs at boot, printing whichever are present in this blob.
func runScenarios(p *fdt.Parser) {
	if node := p.Find("/chosen"); node != nil {
		if prop := p.FindProp(node, "bootargs"); prop != nil {
			s, _ := p.ReadPropString(prop, 0)
			fmt.Printf("bootargs: %s\n", s)
		}
	}

	cpus := p.Find("/cpus")
	if cpus == nil {
		return
	}

	if cpu := p.FindChild(cpus, "cpu"); cpu != nil {
		if prop := p.FindProp(cpu, "phandle"); prop != nil {
			var val [1]uint32
			p.ReadPropCellArray(prop, int(cpu.AddrCells), val[:])
			fmt.Printf("cpus/cpu: phandle %d\n", val[0])
		}
	}

	if cpuMap := p.FindChild(cpus, "cpu-map"); cpuMap != nil {
		if cluster0 := p.FindChild(cpuMap, "cluster0"); cluster0 != nil {
			if core1 := p.FindChild(cluster0, "core1"); core1 != nil {
				if prop := p.FindProp(core1, "cpu"); prop != nil {
					var val [1]uint32
					p.ReadPropCellArray(prop, int(core1.AddrCells), val[:])
					if target := p.FindPhandle(val[0]); target != nil {
						fmt.Printf("cpu-map/cluster0/core1: cpu %d, node %s\n", val[0], target.Name)
					}
				}
			}
		}
	}

	if soc := p.Find("/soc"); soc != nil {
		if match := p.FindCompatible(soc, "ns16550a"); match != nil {
			fmt.Printf("compatible ns16550a: %s\n", match.Name)
		}
	}
}

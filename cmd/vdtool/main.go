// vdtool is a CLI utility for .vd material-weight files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/Faultbox/surface-decals/internal/engine/mesh"
	"github.com/Faultbox/surface-decals/pkg/formats"
	"github.com/Faultbox/surface-decals/pkg/math"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(os.Stdout, args)
	case "init":
		err = cmdInit(os.Stdout, args)
	case "fill":
		err = cmdFill(os.Stdout, args)
	case "check":
		err = cmdCheck(os.Stdout, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`vdtool - material-weight (.vd) file utility

Usage:
  vdtool <command> [options]

Commands:
  info <file.vd>                 Show vertex count, weights and material usage
  init [-mesh m.obj] <file.vd> [count]
                                 Write default records
  fill <file.vd> <weight>        Set every weight (clamped to [0,1])
  check <file.vd> <mesh.obj>     Check the file matches the mesh vertex count

Examples:
  vdtool init -mesh room.obj room.vd
  vdtool fill room.vd 0.5
  vdtool check room.vd room.obj`)
}

func cmdInfo(w io.Writer, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: vdtool info <file.vd>", errUsage)
	}

	records, err := formats.ReadVDFile(args[0], -1)
	if err != nil {
		return err
	}

	// Weight histogram in tenths, last bucket holds exactly 1
	var buckets [11]int
	materials := make(map[uint8]int)
	var sum float64
	for _, r := range records {
		buckets[int(math.Clamp(r.Weight, 0, 1)*10)]++
		sum += float64(r.Weight)
		for _, id := range r.Select {
			materials[id]++
		}
	}

	fmt.Fprintf(w, "File:     %s\n", args[0])
	fmt.Fprintf(w, "Vertices: %d\n", len(records))
	if len(records) > 0 {
		fmt.Fprintf(w, "Mean:     %.3f\n", sum/float64(len(records)))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Weights:")
	for i, n := range buckets {
		if n == 0 {
			continue
		}
		if i == 10 {
			fmt.Fprintf(w, "  1.0       %d\n", n)
			continue
		}
		fmt.Fprintf(w, "  %.1f-%.1f   %d\n", float64(i)/10, float64(i+1)/10, n)
	}

	type materialStat struct {
		id    uint8
		count int
	}
	var stats []materialStat
	for id, n := range materials {
		stats = append(stats, materialStat{id, n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].id < stats[j].id
	})

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Materials (id, layer slots):")
	for _, s := range stats {
		fmt.Fprintf(w, "  %-4d %d\n", int(s.id)+1, s.count)
	}
	return nil
}

func cmdInit(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	meshPath := fs.String("mesh", "", "Take the vertex count from an OBJ mesh")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if fs.NArg() < 1 || (*meshPath == "" && fs.NArg() < 2) {
		return fmt.Errorf("%w: vdtool init [-mesh m.obj] <file.vd> [count]", errUsage)
	}

	var count int
	if *meshPath != "" {
		m, err := mesh.LoadOBJ(*meshPath)
		if err != nil {
			return err
		}
		count = m.VertexCount()
	} else {
		n, err := strconv.Atoi(fs.Arg(1))
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: count must be a positive integer", errUsage)
		}
		count = n
	}

	records := make([]formats.MaterialVertex, count)
	for i := range records {
		records[i] = formats.DefaultMaterialVertex()
	}
	if err := formats.WriteVDFile(fs.Arg(0), records); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %d records to %s\n", count, fs.Arg(0))
	return nil
}

func cmdFill(w io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: vdtool fill <file.vd> <weight>", errUsage)
	}
	weight, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return fmt.Errorf("%w: invalid weight %q", errUsage, args[1])
	}

	records, err := formats.ReadVDFile(args[0], -1)
	if err != nil {
		return err
	}
	v := math.Clamp(float32(weight), 0, 1)
	for i := range records {
		records[i].Weight = v
	}
	if err := formats.WriteVDFile(args[0], records); err != nil {
		return err
	}
	fmt.Fprintf(w, "Set %d weights to %.3f\n", len(records), v)
	return nil
}

func cmdCheck(w io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: vdtool check <file.vd> <mesh.obj>", errUsage)
	}

	m, err := mesh.LoadOBJ(args[1])
	if err != nil {
		return err
	}
	if _, err := formats.ReadVDFile(args[0], m.VertexCount()); err != nil {
		return err
	}
	fmt.Fprintf(w, "OK: %d vertices, %d triangles, %s indices\n", m.VertexCount(), m.TriangleCount(), m.IndexFormat)
	return nil
}

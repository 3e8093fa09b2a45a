package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/masahiro331/go-mbr-parser/pkg/disk/mbr"
	"github.com/sirupsen/logrus"
)

type partitionInfo struct {
	Type     string `json:"Type"`
	Bootable bool   `json:"Bootable"`
	CHSStart uint32 `json:"CHS start"`
	CHSEnd   uint32 `json:"CHS end"`
	LBA      uint64 `json:"Logical block address"`
	Size     uint64 `json:"Size"`
}

type recordInfo struct {
	Signature  uint16          `json:"Signature"`
	Partitions []partitionInfo `json:"Partitions"`
}

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug information")
	jsonFlag := flag.Bool("json", false, "Print partition tables as JSON")
	flag.Parse()

	if *debugFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if flag.NArg() < 1 {
		logrus.Fatal("required [image] argument")
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		logrus.Fatal(err)
	}
	defer f.Close()

	var infos []recordInfo
	walker := mbr.NewWalker(f)
	for {
		record, err := walker.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			logrus.Fatal(err)
		}

		logrus.Debugf("boot record at sector %d: %d extended entries, valid signature: %t",
			record.Offset(), len(record.ExtendedPartitions()), record.ValidSignature())

		if *jsonFlag {
			infos = append(infos, newRecordInfo(record))
			continue
		}
		for _, p := range record.GetPartitions() {
			fmt.Println(p.Name())
		}
	}

	if *jsonFlag {
		out, err := json.MarshalIndent(infos, "", "    ")
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Println(string(out))
	}
}

func newRecordInfo(record *mbr.BootRecord) recordInfo {
	info := recordInfo{Signature: record.Signature}
	for _, p := range record.GetPartitions() {
		info.Partitions = append(info.Partitions, partitionInfo{
			Type:     p.Name(),
			Bootable: p.Bootable(),
			CHSStart: chsValue(p.GetStartCHS()),
			CHSEnd:   chsValue(p.GetEndCHS()),
			LBA:      p.GetStartSector(),
			Size:     p.GetSize(),
		})
	}
	return info
}

func chsValue(chs [3]byte) uint32 {
	return uint32(chs[0]) | uint32(chs[1])<<8 | uint32(chs[2])<<16
}

// fatctl manipulates filesystem images from the host: formatting, listing
// and moving files in and out of an image file.
//
//	fatctl --image disk.img format
//	fatctl --image disk.img mkdir DOCS
//	fatctl --image disk.img --parent 3 write A.TXT --from ./a.txt
//	fatctl --image disk.img --parent 3 cat A.TXT
//	fatctl --image disk.img --parent 3 rm A.TXT
//	fatctl --image disk.img ls
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	"github.com/osdev-kit/fat32"
	"github.com/osdev-kit/fat32/blockdev"
)

var (
	image   = flag.String("image", "disk.img", "path of the disk image")
	parent  = flag.Uint32("parent", fat32.RootClusterNumber, "cluster number of the directory to operate in")
	from    = flag.String("from", "", "local file providing the content for write")
	verbose = flag.BoolP("verbose", "v", false, "enable debug logging")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: fatctl [flags] <format|ls|mkdir NAME|write NAME --from FILE|cat NAME|rm NAME>\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
	}

	dev, err := blockdev.OpenFile(afero.NewOsFs(), *image, fat32.ClusterMapSize*fat32.ClusterBlockCount)
	if err != nil {
		logrus.WithError(err).Fatal("could not open the image")
	}
	defer dev.Close()

	driver := fat32.New(dev)

	if args[0] == "format" {
		if err := driver.Format(); err != nil {
			logrus.WithError(err).Fatal("format failed")
		}
		logrus.WithField("image", *image).Info("image formatted")
		return
	}

	if err := driver.Mount(); err != nil {
		logrus.WithError(err).Fatal("mount failed")
	}

	switch args[0] {
	case "ls":
		infos, err := driver.List(*parent)
		if err != nil {
			logrus.WithError(err).Fatal("ls failed")
		}
		for _, info := range infos {
			kind := "file"
			if info.IsDir() {
				kind = "dir"
			}
			fmt.Printf("%-4s %8d  %s\n", kind, info.Size(), info.Name())
		}

	case "mkdir":
		if len(args) != 2 {
			usage()
		}
		if err := driver.Mkdir(args[1], *parent); err != nil {
			logrus.WithError(err).Fatal("mkdir failed")
		}
		logrus.WithField("name", args[1]).Info("directory created")

	case "write":
		if len(args) != 2 || *from == "" {
			usage()
		}
		content, err := os.ReadFile(*from)
		if err != nil {
			logrus.WithError(err).Fatal("could not read the source file")
		}
		name, ext := splitName(args[1])
		err = driver.Write(fat32.Request{
			Name:          name,
			Ext:           ext,
			ParentCluster: *parent,
			Buffer:        content,
		})
		if err != nil {
			logrus.WithError(err).Fatal("write failed")
		}
		logrus.WithFields(logrus.Fields{"name": args[1], "bytes": len(content)}).Info("file written")

	case "cat":
		if len(args) != 2 {
			usage()
		}
		name, ext := splitName(args[1])
		size, err := fileSize(driver, *parent, args[1])
		if err != nil {
			logrus.WithError(err).Fatal("cat failed")
		}
		buf := make([]byte, size)
		n, err := driver.Read(fat32.Request{
			Name:          name,
			Ext:           ext,
			ParentCluster: *parent,
			Buffer:        buf,
		})
		if err != nil {
			logrus.WithError(err).Fatal("cat failed")
		}
		os.Stdout.Write(buf[:n])

	case "rm":
		if len(args) != 2 {
			usage()
		}
		name, ext := splitName(args[1])
		err := driver.Delete(fat32.Request{Name: name, Ext: ext, ParentCluster: *parent})
		if err != nil {
			logrus.WithError(err).Fatal("rm failed")
		}
		logrus.WithField("name", args[1]).Info("entry removed")

	default:
		usage()
	}
}

// splitName splits "A.TXT" into its 8-byte name and 3-byte extension parts.
func splitName(arg string) (string, string) {
	name, ext, _ := strings.Cut(arg, ".")
	return name, ext
}

// fileSize looks the entry up in the parent listing to size the read buffer.
func fileSize(driver *fat32.Driver, parentCluster uint32, fullName string) (int64, error) {
	infos, err := driver.List(parentCluster)
	if err != nil {
		return 0, err
	}
	for _, info := range infos {
		if info.Name() == fullName {
			return info.Size(), nil
		}
	}
	return 0, fat32.ErrNotFound
}

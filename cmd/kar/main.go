// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"io"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/mmap"

	"github.com/koru3d/vkr/utility/kar"
)

func init() {
	currentUserName = "unknown"
	if u, err := user.Current(); err == nil && u.Name != "" {
		currentUserName = u.Name
	}
}

var (
	currentUserName string
	author          = flag.String("author", "", "Set the author of the package when compressing")
	version         = flag.Int64("version", 1, "Archive version number to create it with")
	extract         = flag.String("e", "", "Extract the file given")
	compress        = flag.String("c", "", "Compress the given file/folder")
	dstFile         = flag.String("f", "out.kar", "Destination file when compressing, directory when extracting")
	list            = flag.Bool("l", false, "List the files of the archive given with -e instead of extracting")
	silent          = flag.Bool("s", false, "Silent")
)

func main() {
	flag.Parse()
	if *silent {
		log.SetLevel(log.WarnLevel)
	}

	if *extract != "" && *compress != "" {
		log.Fatal("only one operation at a time")
	}

	switch {
	case *extract != "":
		if err := extractFiles(*extract, *dstFile); err != nil {
			log.Fatal(err)
		}
	case *compress != "":
		if err := compressFiles(*compress, *dstFile); err != nil {
			log.Fatal(err)
		}
	default:
		flag.PrintDefaults()
	}
}

func compressFiles(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return errors.New("destination file exists, will not overwrite")
	}

	if *author == "" {
		*author = currentUserName
	}
	karBuilder, err := kar.NewBuilder(kar.Header{
		Author:      *author,
		DateCreated: time.Now().Unix(),
		Version:     *version,
	})
	if err != nil {
		return err
	}
	defer karBuilder.Close()

	err = filepath.Walk(src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		// names are relative to the compressed folder and slash separated
		name, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if name == "." {
			name = filepath.Base(p)
		}
		name = filepath.ToSlash(name)

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := karBuilder.Add(name, f); err != nil {
			return err
		}
		log.WithField("file", name).Info("added")
		return nil
	})
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	written, err := karBuilder.WriteTo(out)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	log.WithFields(log.Fields{
		"archive": dst,
		"files":   karBuilder.Len(),
		"bytes":   written,
	}).Info("archive written")
	return out.Close()
}

func extractFiles(src, dst string) error {
	r, err := mmap.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()

	ar, err := kar.Open(r)
	if err != nil {
		return errors.Wrap(err, src)
	}

	header := ar.Header()
	log.WithFields(log.Fields{
		"author":  header.Author,
		"created": time.Unix(header.DateCreated, 0).Format(time.RFC3339),
		"version": header.Version,
	}).Info(src)

	for _, name := range ar.Names() {
		if *list {
			entry, _ := ar.Stat(name)
			log.WithFields(log.Fields{
				"size":       entry.Size,
				"compressed": entry.CompressedSize,
			}).Info(name)
			continue
		}
		if err := extractFile(ar, name, dst); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(ar *kar.Archive, name, dst string) error {
	target := filepath.Join(dst, filepath.FromSlash(path.Clean("/" + name)))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	in, err := ar.Open(name)
	if err != nil {
		return err
	}
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "extracting %s", name)
	}
	log.WithField("file", target).Info("extracted")
	return out.Close()
}

package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/InnProgress/virtual-machine/vm"
)

// watchMode runs the program, and runs it again each time the program or
// input file changes. It only returns if the watcher cannot be set up.
func watchMode(progFile, inFile, outFile string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	for _, dir := range watchDirs(progFile, inFile) {
		if err := fw.Watch(dir); err != nil {
			return err
		}
	}

	events := make(chan watchEvent)
	go func() {
		for ev := range fw.Event {
			events <- watchEvent{name: ev.Name, attrib: ev.IsAttrib()}
		}
	}()
	w := newRunWatcher(progFile, inFile, outFile)
	w.loop(events, fw.Error, nil)
	return nil
}

type watchEvent struct {
	name   string
	attrib bool // only attributes changed
}

type runWatcher struct {
	progFile, inFile, outFile string

	delay time.Duration               // wait after the last change before running
	ran   func(vm.Termination, error) // called after each run, if set
}

func newRunWatcher(progFile, inFile, outFile string) *runWatcher {
	return &runWatcher{
		progFile: filepath.Clean(progFile),
		inFile:   filepath.Clean(inFile),
		outFile:  outFile,
		delay:    100 * time.Millisecond,
	}
}

// loop runs the program once and again after each burst of events naming
// the program or input file, until done is closed.
func (w *runWatcher) loop(events <-chan watchEvent, errs <-chan error, done <-chan struct{}) {
	rerun := time.After(1 * time.Millisecond)
	for {
		select {
		case <-rerun:
			log.Printf("watch: run %s", filepath.Base(w.progFile))
			term, err := run(w.progFile, w.inFile, w.outFile)
			if err != nil {
				log.Printf("watch: %v", err)
			} else {
				fmt.Println(term)
			}
			if w.ran != nil {
				w.ran(term, err)
			}
		case ev := <-events:
			if name := filepath.Clean(ev.name); (name == w.progFile || name == w.inFile) && !ev.attrib {
				rerun = time.After(w.delay)
			}
		case err := <-errs:
			log.Printf("watch: watcher: %v", err)
		case <-done:
			return
		}
	}
}

// watchDirs returns the distinct directories holding files.
func watchDirs(files ...string) []string {
	var dirs []string
	seen := map[string]bool{}
	for _, f := range files {
		d := filepath.Dir(f)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

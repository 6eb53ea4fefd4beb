package editcfg_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joshuapare/cfgkit/pkg/editcfg"
)

func Example() {
	dir, err := os.MkdirTemp("", "editcfg")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "printer.cfg")
	cfg := "[stepper_x]\nstep_pin: PC14   # X step\n\n[mcu]\nserial: /dev/ttyS0\n"
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		log.Fatal(err)
	}

	ed, err := editcfg.Open(path, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := ed.EditKey("stepper_x", "step_pin", "PC15"); err != nil {
		log.Fatal(err)
	}
	if err := ed.Save(); err != nil {
		log.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	fmt.Print(string(data))
	// Output:
	// [stepper_x]
	// step_pin: PC15   # X step
	//
	// [mcu]
	// serial: /dev/ttyS0
}

func ExampleEditor_ListSections() {
	dir, err := os.MkdirTemp("", "editcfg")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "printer.cfg")
	cfg := "[stepper_x]\nstep_pin: PC14\n\n[stepper_y]\nstep_pin: PC10\n\n#[stepper_z]\n#step_pin: PC0\n"
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		log.Fatal(err)
	}

	ed, err := editcfg.Open(path, nil)
	if err != nil {
		log.Fatal(err)
	}
	infos, err := ed.ListSections("stepper_*")
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range infos {
		fmt.Printf("%s @%d active=%t\n", s.Label, s.Line, s.Active)
	}
	// Output:
	// stepper_x @1 active=true
	// stepper_y @4 active=true
	// stepper_z @7 active=false
}

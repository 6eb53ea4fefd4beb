// Command editcfg edits Klipper printer.cfg files from the shell or
// through the one-shot edit protocol.
package main

func main() {
	execute()
}

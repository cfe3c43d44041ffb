// Command expressio evaluates arithmetic expressions from arguments, files,
// or an interactive prompt.
package main

func main() {
	Execute()
}

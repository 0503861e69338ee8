package main

import "fmt"

type Greeter interface {
	Greet(name string) string
}

type Formal struct{}

func (Formal) Greet(name string) string {
	return formatGreeting("Good day", name)
}

func formatGreeting(salutation, name string) string {
	return fmt.Sprintf("%s, %s.", salutation, name)
}

func printGreeting(g Greeter, name string) {
	fmt.Println(g.Greet(name))
}

func main() {
	printGreeting(Formal{}, "World")
}

// Command sparrow runs the sparrow demo stage and inspects stage configs.
package main

func main() {
	Execute()
}

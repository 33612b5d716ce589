// cmd/blog-generator/main.go
package main

func main() {
	Execute()
}

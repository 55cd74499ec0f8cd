package extract

import "fmt"

// Example is a canned input text.
type Example struct {
	Name string
	Text string
}

// Examples are the built-in sample inputs, numbered from 1 in the CLI.
var Examples = []Example{
	{
		Name: "school",
		Text: `Student has name, age and rollNumber.
Teacher has name, subject and experience.
Person has address and phoneNumber.
Student inherits from Person.
Teacher inherits from Person.`,
	},
	{
		Name: "library",
		Text: `Book has title, author and ISBN.
Member has name, email and memberID.
Library consists of Book.
Librarian inherits from Member.
Member uses Book.`,
	},
	{
		Name: "shop",
		Text: `Customer has name, email and address.
Product has name, price and description.
Order has orderDate and totalAmount.
Cart has items.
Customer has Cart.
Cart contains Product.
Order consists of Product.`,
	},
	{
		Name: "vehicle",
		Text: `Car has color, model and year.
Engine has power, type and cylinders.
Vehicle has speed.
Car inherits from Vehicle.
Car consists of Engine.`,
	},
}

// ExampleByNumber returns the n-th example, counting from 1.
func ExampleByNumber(n int) (Example, error) {
	if n < 1 || n > len(Examples) {
		return Example{}, fmt.Errorf("example %d does not exist (1-%d)", n, len(Examples))
	}
	return Examples[n-1], nil
}

// ExampleByName returns the example with the given name.
func ExampleByName(name string) (Example, bool) {
	for _, e := range Examples {
		if e.Name == name {
			return e, true
		}
	}
	return Example{}, false
}

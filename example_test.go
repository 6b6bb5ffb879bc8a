package s11n_test

import (
	"errors"
	"fmt"

	"github.com/KumKeeHyun/s11n"
)

func Example_map() {
	r := s11n.NewRegistry()

	n := s11n.NewNode("scores")
	if err := s11n.Serialize(r, n, map[string]int{"b": 2, "a": 1}); err != nil {
		panic(err)
	}
	for _, pair := range n.Children() {
		first, _ := pair.FindChild("first")
		second, _ := pair.FindChild("second")
		k, _ := first.Get("v")
		v, _ := second.Get("v")
		fmt.Println(pair.Name(), k, v)
	}

	// break the second entry, the target keeps its old content
	second, _ := n.Child(1).FindChild("second")
	second.Unset("v")

	dst := map[string]int{"x": 9}
	err := s11n.Deserialize(r, n, &dst)
	fmt.Println(errors.Is(err, s11n.ErrPartialChildFailure), dst)

	// Output:
	// pair a 1
	// pair b 2
	// true map[x:9]
}

func Example_properties() {
	r := s11n.NewRegistry()

	var props s11n.Properties
	_ = props.SetProperty("label", "castle")
	_ = props.SetProperty("pos", s11n.Point{X: 3, Y: 4})
	_ = props.SetProperty("scratch", make(chan int))

	n := s11n.NewNode("properties")
	if err := s11n.SerializeProperties(r, n, &props); err != nil {
		panic(err)
	}

	var restored s11n.Properties
	if err := s11n.DeserializeProperties(r, n, &restored); err != nil {
		panic(err)
	}
	for _, name := range restored.PropertyNames() {
		v, _ := restored.Property(name)
		fmt.Println(name, v)
	}

	// Output:
	// label castle
	// pos (3,4)
}

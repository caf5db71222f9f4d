package domain

var Tables = []interface{}{
	// Collection
	&LegoSet{},
}

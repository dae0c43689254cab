package main

import "biblio/internal/contacts"

// seedContacts provides the demo address book served by the in-memory store.
func seedContacts() []contacts.Contact {
	return []contacts.Contact{
		{
			ID:            "68b1f0a4c2d94d2f6c1a0001",
			FirstName:     "Ada",
			LastName:      "Lovelace",
			Email:         "ada@example.com",
			FavoriteColor: "green",
			Birthday:      "1815-12-10",
		},
		{
			ID:            "68b1f0a4c2d94d2f6c1a0002",
			FirstName:     "Alan",
			LastName:      "Turing",
			Email:         "alan@example.com",
			FavoriteColor: "blue",
			Birthday:      "1912-06-23",
		},
		{
			ID:            "68b1f0a4c2d94d2f6c1a0003",
			FirstName:     "Grace",
			LastName:      "Hopper",
			Email:         "grace@example.com",
			FavoriteColor: "navy",
			Birthday:      "1906-12-09",
		},
	}
}

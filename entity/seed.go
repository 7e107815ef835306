package entity

// SeedEvents is the built-in catalog used when the remote API has nothing to
// offer. A fresh copy is returned on every call.
func SeedEvents() []Event {
	return []Event{
		{
			ID:          "1",
			Title:       "Luxury Garden Wedding",
			Description: "An elegant outdoor wedding ceremony in a beautiful garden setting with premium catering and decoration.",
			Category:    "Weddings",
			Price:       15000,
			Rating:      4.8,
			Image:       "https://images.unsplash.com/photo-1519741497674-611481863552?w=500",
			Images: []string{
				"https://images.unsplash.com/photo-1519741497674-611481863552?w=500",
				"https://images.unsplash.com/photo-1519223328517-3a0a9e0c0b7d?w=500",
			},
			Date:           "2024-06-15",
			Time:           "18:00",
			Location:       "Sunset Gardens, Mumbai",
			Capacity:       200,
			AvailableSlots: 45,
			Services:       []string{"Catering", "Decoration", "Photography", "Music"},
			Organizer:      "Elite Events Co.",
			Featured:       true,
		},
		{
			ID:             "2",
			Title:          "Sweet 16 Birthday Bash",
			Description:    "A fun-filled birthday party with DJ, photo booth, and amazing entertainment for teenagers.",
			Category:       "Birthday Parties",
			Price:          2500,
			Rating:         4.6,
			Image:          "https://images.unsplash.com/photo-1464207687429-7505649dae38?w=500",
			Date:           "2024-05-20",
			Time:           "16:00",
			Location:       "Fun Zone, Delhi",
			Capacity:       50,
			AvailableSlots: 12,
			Services:       []string{"DJ", "Photo Booth", "Games", "Cake"},
			Organizer:      "Party Planners Inc.",
			Featured:       true,
		},
		{
			ID:             "3",
			Title:          "Summer DJ Festival",
			Description:    "An electrifying night with top DJs playing the latest hits. Food and drinks included.",
			Category:       "DJ Events",
			Price:          800,
			Rating:         4.9,
			Image:          "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?w=500",
			Date:           "2024-07-01",
			Time:           "20:00",
			Location:       "Beach Club, Goa",
			Capacity:       500,
			AvailableSlots: 200,
			Services:       []string{"DJ Performance", "Bar", "Food Court", "Security"},
			Organizer:      "Beach Entertainment",
			Featured:       true,
		},
		{
			ID:             "4",
			Title:          "Traditional Diwali Celebration",
			Description:    "Experience the festival of lights with traditional music, dance, and authentic Indian cuisine.",
			Category:       "Cultural Events",
			Price:          1200,
			Rating:         4.7,
			Image:          "https://images.unsplash.com/photo-1516426122078-c23e76319801?w=500",
			Date:           "2024-10-31",
			Time:           "19:00",
			Location:       "Cultural Center, Jaipur",
			Capacity:       300,
			AvailableSlots: 80,
			Services:       []string{"Cultural Performances", "Traditional Food", "Fireworks", "Decorations"},
			Organizer:      "Heritage Events",
		},
		{
			ID:             "5",
			Title:          "Annual Corporate Gala",
			Description:    "A sophisticated corporate event with networking opportunities, awards ceremony, and fine dining.",
			Category:       "Corporate Events",
			Price:          5000,
			Rating:         4.5,
			Image:          "https://images.unsplash.com/photo-1511795409834-ef04bbd61622?w=500",
			Date:           "2024-08-15",
			Time:           "18:30",
			Location:       "Grand Hotel, Bangalore",
			Capacity:       150,
			AvailableSlots: 30,
			Services:       []string{"Networking", "Awards Ceremony", "Fine Dining", "Entertainment"},
			Organizer:      "Corporate Solutions",
		},
	}
}

func SeedCategories() []Category {
	return []Category{
		{ID: "1", Name: "Weddings", Description: "Make your special day unforgettable", Image: "https://images.unsplash.com/photo-1519741497674-611481863552?w=500", Color: "bg-pink-500"},
		{ID: "2", Name: "Birthday Parties", Description: "Celebrate your birthday in style", Image: "https://images.unsplash.com/photo-1464207687429-7505649dae38?w=500", Color: "bg-purple-500"},
		{ID: "3", Name: "DJ Events", Description: "Dance the night away with top DJs", Image: "https://images.unsplash.com/photo-1470225620780-dba8ba36b745?w=500", Color: "bg-blue-500"},
		{ID: "4", Name: "Cultural Events", Description: "Experience rich cultural traditions", Image: "https://images.unsplash.com/photo-1516426122078-c23e76319801?w=500", Color: "bg-orange-500"},
		{ID: "5", Name: "Corporate Events", Description: "Professional events for your business", Image: "https://images.unsplash.com/photo-1511795409834-ef04bbd61622?w=500", Color: "bg-gray-600"},
	}
}

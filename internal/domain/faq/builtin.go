package faq

import "context"

var builtinEntries = []Entry{
	{
		Question: "What is the best time to visit Mumbai?",
		Answer:   "The best time to visit Mumbai is from November to February when the weather is cool and pleasant.",
	},
	{
		Question: "Where are the popular tourist spots in Mumbai?",
		Answer:   "Some popular spots include Gateway of India, Marine Drive, Juhu Beach, Chhatrapati Shivaji Terminus, and Elephanta Caves.",
	},
	{
		Question: "Tell me about public transport in Mumbai",
		Answer:   "Mumbai has local trains, buses, metro, auto-rickshaws, and taxis. Trains are the fastest way to travel across the city.",
	},
	{
		Question: "How can I check the weather in Mumbai?",
		Answer:   "You can check live weather using apps or websites like OpenWeatherMap or Google Weather.",
	},
	{
		Question: "What is Mumbai famous for?",
		Answer:   "Mumbai is famous for Bollywood, beaches, street food, historical landmarks, and as the financial capital of India.",
	},
	{
		Question: "Tell me about local cuisine in Mumbai",
		Answer:   "Famous foods include Vada Pav, Pav Bhaji, Bhel Puri, Misal Pav, and Bombay Sandwich.",
	},
	{
		Question: "Where is the airport located?",
		Answer:   "Chhatrapati Shivaji Maharaj International Airport is located in Sahar, Andheri East, Mumbai.",
	},
}

// BuiltinSource serves the compiled-in Mumbai FAQ table.
type BuiltinSource struct{}

// Load implements Source.
func (BuiltinSource) Load(_ context.Context) ([]Record, error) {
	records := make([]Record, len(builtinEntries))
	for i, e := range builtinEntries {
		records[i] = Record{Entry: e}
	}
	return records, nil
}

var _ Source = BuiltinSource{}

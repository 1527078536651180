package extract

import "testing"

func TestDealDetails(t *testing.T) {
	cases := []struct {
		name string
		body string
		want Details
	}{
		{
			name: "budget deliverables and due date",
			body: "Budget: $15k for 2 reels, due 11/15/2025",
			want: Details{Budget: "$15,000", Deliverables: "2 reels", DueDate: "11/15/2025"},
		},
		{
			name: "explicit deliverables line",
			body: "Deliverables: 3 Instagram posts and 1 story\nDeadline: 12/01/2025",
			want: Details{Deliverables: "3 Instagram posts and 1 story", DueDate: "12/01/2025"},
		},
		{
			name: "million suffix",
			body: "Our budget is 1.5m for this campaign.",
			want: Details{Budget: "$1,500,000", Deliverables: "this campaign"},
		},
		{
			name: "currency amount with deal context",
			body: "We can pay £2,500 total.",
			want: Details{Budget: "£2,500"},
		},
		{
			name: "currency amount without context ignored",
			body: "Last year we spent $2,500 on travel alone.",
			want: Details{},
		},
		{
			name: "month name due date",
			body: "Please deliver by November 15, 2025 at the latest.",
			want: Details{DueDate: "November 15, 2025"},
		},
		{
			name: "nothing present",
			body: "Hey, loved your latest upload!",
			want: Details{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DealDetails(tc.body)
			if got != tc.want {
				t.Errorf("DealDetails(%q) = %+v, want %+v", tc.body, got, tc.want)
			}
		})
	}
}

func TestDealDetailsDeterministic(t *testing.T) {
	body := "Budget: $15k for 2 reels, due 11/15/2025"
	first := DealDetails(body)
	for i := 0; i < 5; i++ {
		if got := DealDetails(body); got != first {
			t.Fatalf("run %d produced %+v, want %+v", i, got, first)
		}
	}
}

func TestBrandName(t *testing.T) {
	cases := []struct {
		name    string
		subject string
		from    string
		want    string
	}{
		{"subject suffix wins", "Partnership Opportunity - Acme Co", `"Jane Doe" <jane@acme.com>`, "Acme Co"},
		{"display name second", "Quick question", `"Acme Partnerships" <hello@acme.com>`, "Acme Partnerships"},
		{"unquoted display name", "Hello", `Acme Team <team@acme.com>`, "Acme Team"},
		{"subject third", "Collab idea", "noreply@acme.com", "Collab idea"},
		{"raw address last", "", "noreply@acme.com", "noreply@acme.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BrandName(tc.subject, tc.from); got != tc.want {
				t.Errorf("BrandName(%q, %q) = %q, want %q", tc.subject, tc.from, got, tc.want)
			}
		})
	}
}

func TestSenderDomain(t *testing.T) {
	cases := []struct {
		from string
		want string
	}{
		{`"Jane" <jane@Acme.COM>`, "acme.com"},
		{"jane@acme.com", "acme.com"},
		{"not an address", ""},
		{"broken@", ""},
	}

	for _, tc := range cases {
		if got := SenderDomain(tc.from); got != tc.want {
			t.Errorf("SenderDomain(%q) = %q, want %q", tc.from, got, tc.want)
		}
	}
}

func TestSenderAddress(t *testing.T) {
	if got := SenderAddress(`"Jane" <jane@acme.com>`); got != "jane@acme.com" {
		t.Errorf("SenderAddress() = %q", got)
	}
	if got := SenderAddress("jane@acme.com"); got != "jane@acme.com" {
		t.Errorf("SenderAddress() = %q", got)
	}
}

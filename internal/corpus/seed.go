package corpus

import "context"

// SampleApplicants returns a small demo corpus for the seed command.
func SampleApplicants() []Applicant {
	return []Applicant{
		{
			ID:         1,
			Name:       "Ada Reyes",
			Role:       "Senior Backend Engineer",
			Summary:    "Backend engineer with eight years building payment systems.",
			Skills:     "Go Python PostgreSQL Kafka Docker Kubernetes",
			Experience: "Led migration of a monolith to event-driven microservices handling 30k requests per second.",
			Education:  "BSc Computer Science, University of Edinburgh",
		},
		{
			ID:         2,
			Name:       "Brian Okafor",
			Role:       "Machine Learning Engineer",
			Summary:    "ML engineer focused on natural language processing and search ranking.",
			Skills:     "Python PyTorch TensorFlow SQL Spark",
			Experience: "Built and deployed machine learning pipelines for ad relevance at scale.",
			Education:  "MSc Artificial Intelligence, KU Leuven",
		},
		{
			ID:         3,
			Name:       "Carla Lindqvist",
			Role:       "Full Stack Developer",
			Summary:    "Product-minded developer comfortable across the stack.",
			Skills:     "JavaScript TypeScript React Node.js GraphQL Redis",
			Experience: "Shipped a customer portal used by two million monthly users.",
			Education:  "BEng Software Engineering, KTH",
		},
		{
			ID:         4,
			Name:       "Devi Natarajan",
			Role:       "Data Engineer",
			Summary:    "Data engineer specializing in streaming pipelines and warehousing.",
			Skills:     "Python Scala Kafka Airflow Snowflake dbt",
			Experience: "Designed distributed data pipelines ingesting a terabyte per day.",
			Education:  "BTech Information Technology, IIT Madras",
		},
		{
			ID:         5,
			Name:       "Elias Brandt",
			Role:       "Site Reliability Engineer",
			Summary:    "SRE keeping large Kubernetes fleets healthy.",
			Skills:     "Go Terraform Kubernetes Prometheus Grafana Linux",
			Experience: "On-call lead for a platform with 99.99 percent availability targets.",
			Education:  "BSc Computer Engineering, TU Delft",
		},
	}
}

// Seed writes the sample applicants into the store.
func (s *Store) Seed(ctx context.Context) error {
	return s.Put(ctx, SampleApplicants()...)
}
